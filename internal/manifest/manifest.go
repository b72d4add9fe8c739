// Package manifest rewrites an AndroidManifest.xml template by
// overlaying Project.package fields onto the manifest/uses-sdk/
// application elements. Every other element, comment,
// processing instruction and text node is copied through unchanged.
package manifest

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/model"
)

// defaultAndroidNS is used to qualify synthesized android:* attributes
// when the source manifest's own xmlns:android declaration could not be
// found on the <manifest> start tag.
const defaultAndroidNS = "http://schemas.android.com/apk/res/android"

// nsScope records the xmlns:prefix="uri" declarations carried by one
// element's own start tag, keyed by uri so a descendant attribute that
// resolved to that uri can be written back out with its original prefix.
type nsScope struct {
	prefixes map[string]string
}

// Transform streams a manifest template from r to w, overlaying
// identity and SDK-range attributes from pkg. pkg may be nil, in which
// case no attribute is overlaid; an xmlns:android declaration is still
// added to <manifest> if the template lacks one.
//
// encoding/xml's Decoder resolves a namespaced attribute's prefix to its
// full URI, and its Encoder has no notion of an ancestor's xmlns
// declarations when deciding how to print one back out — left alone, it
// invents a fresh "_2:foo"-style prefix for any attribute whose
// namespace wasn't declared on that exact element, which silently
// mangles every android:-prefixed attribute below the root <manifest>
// tag. nsStack tracks the real prefix for each namespace URI as the
// scan descends, so qualifyAttrs can write the original prefix back in
// literally instead of handing the Attr to the encoder's own namespace
// logic.
func Transform(r io.Reader, w io.Writer, pkg *model.PackageInfo) error {
	dec := xml.NewDecoder(r)
	enc := xml.NewEncoder(w)
	defer enc.Flush()

	androidNS := defaultAndroidNS
	sdkEmitted := false
	var nsStack []nsScope

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errs.Wrap(errs.ManifestParse, "decoding manifest", err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if len(nsStack) > 0 {
				nsStack = nsStack[:len(nsStack)-1]
			}
			if err := enc.EncodeToken(t); err != nil {
				return errs.Wrap(errs.ManifestParse, "encoding manifest", err)
			}

		case xml.StartElement:
			start := t

			switch start.Name.Local {
			case "manifest":
				if ns := findNamespace(start.Attr, "android"); ns != "" {
					androidNS = ns
				} else {
					androidNS = defaultAndroidNS
					start.Attr = append(start.Attr, xml.Attr{
						Name:  xml.Name{Space: "xmlns", Local: "android"},
						Value: androidNS,
					})
				}
				if pkg != nil {
					start.Attr = overlay(start.Attr,
						attr("", "package", pkg.Package),
						attr(androidNS, "versionName", pkg.Version),
						attrInt(androidNS, "versionCode", pkg.VersionCode),
					)
				}

			case "uses-sdk":
				sdkEmitted = true
				if pkg != nil {
					start.Attr = overlay(start.Attr,
						attrInt(androidNS, "minSdkVersion", pkg.MinSDK),
						attrInt(androidNS, "targetSdkVersion", pkg.TargetSDK),
					)
				}

			case "application":
				if !sdkEmitted && pkg != nil && (pkg.MinSDK != 0 || pkg.TargetSDK != 0) {
					if err := encodeUsesSDK(enc, androidNS, pkg, nsStack); err != nil {
						return err
					}
					sdkEmitted = true
				}
				if pkg != nil {
					start.Attr = overlay(start.Attr,
						attr(androidNS, "label", pkg.Label),
						attr(androidNS, "icon", pkg.Icon),
					)
				}
			}

			nsStack = append(nsStack, nsScope{prefixes: declaredPrefixes(start.Attr)})
			start.Attr = qualifyAttrs(start.Attr, nsStack)
			if err := enc.EncodeToken(start); err != nil {
				return errs.Wrap(errs.ManifestParse, "encoding manifest", err)
			}

		default:
			if err := enc.EncodeToken(tok); err != nil {
				return errs.Wrap(errs.ManifestParse, "encoding manifest", err)
			}
		}
	}

	return nil
}

func encodeUsesSDK(enc *xml.Encoder, androidNS string, pkg *model.PackageInfo, stack []nsScope) error {
	name := xml.Name{Local: "uses-sdk"}
	attrs := overlay(nil,
		attrInt(androidNS, "minSdkVersion", pkg.MinSDK),
		attrInt(androidNS, "targetSdkVersion", pkg.TargetSDK),
	)
	start := xml.StartElement{Name: name, Attr: qualifyAttrs(attrs, stack)}
	if err := enc.EncodeToken(start); err != nil {
		return errs.Wrap(errs.ManifestParse, "encoding uses-sdk", err)
	}
	if err := enc.EncodeToken(xml.EndElement{Name: name}); err != nil {
		return errs.Wrap(errs.ManifestParse, "encoding uses-sdk", err)
	}
	return nil
}

// attr builds an xml.Attr for a string-valued overlay; a zero-value
// value means "leave unconfigured" and is dropped by overlay.
func attr(space, local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value}
}

func attrInt(space, local string, value int) xml.Attr {
	if value == 0 {
		return xml.Attr{Name: xml.Name{Space: space, Local: local}}
	}
	return xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: strconv.Itoa(value)}
}

// overlay removes any existing attribute sharing a local name with one
// of the updates that carry a non-empty value, then appends those
// updates in the order given: remove, keep others in order, append new
// value at the end. An update with an empty value leaves the existing
// attribute in place.
func overlay(existing []xml.Attr, updates ...xml.Attr) []xml.Attr {
	remove := map[string]bool{}
	for _, u := range updates {
		if u.Value != "" {
			remove[u.Name.Local] = true
		}
	}

	out := make([]xml.Attr, 0, len(existing)+len(updates))
	for _, a := range existing {
		if !remove[a.Name.Local] {
			out = append(out, a)
		}
	}
	for _, u := range updates {
		if u.Value != "" {
			out = append(out, u)
		}
	}
	return out
}

func findNamespace(attrs []xml.Attr, prefix string) string {
	for _, a := range attrs {
		if a.Name.Local == prefix && a.Name.Space == "xmlns" {
			return a.Value
		}
	}
	return ""
}

// declaredPrefixes collects the xmlns:prefix="uri" declarations an
// element's own start tag carries, keyed by uri.
func declaredPrefixes(attrs []xml.Attr) map[string]string {
	out := map[string]string{}
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			out[a.Value] = a.Name.Local
		}
	}
	return out
}

// qualifyAttrs rewrites each namespaced attribute into a plain
// "prefix:local" attribute name using the nearest enclosing scope that
// declared its namespace uri, so the encoder never has to invent its
// own prefix for it. An attribute whose namespace has no declaration
// anywhere on the stack is left for the encoder to handle as-is.
func qualifyAttrs(attrs []xml.Attr, stack []nsScope) []xml.Attr {
	out := make([]xml.Attr, len(attrs))
	for i, a := range attrs {
		if a.Name.Space == "" || a.Name.Space == "xmlns" {
			out[i] = a
			continue
		}
		if prefix, ok := lookupPrefix(stack, a.Name.Space); ok {
			out[i] = xml.Attr{Name: xml.Name{Local: prefix + ":" + a.Name.Local}, Value: a.Value}
			continue
		}
		out[i] = a
	}
	return out
}

func lookupPrefix(stack []nsScope, uri string) (string, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if prefix, ok := stack[i].prefixes[uri]; ok {
			return prefix, true
		}
	}
	return "", false
}

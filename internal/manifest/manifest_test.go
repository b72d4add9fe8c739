package manifest

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarmoff-afk/spawn/internal/model"
)

const fixtureManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.placeholder.app">
    <!-- generated by the template -->
    <uses-permission android:name="android.permission.INTERNET"/>
    <application android:label="Placeholder" android:icon="@mipmap/ic_launcher">
        <activity android:name=".MainActivity"/>
    </application>
</manifest>
`

const fixtureManifestNoSDK = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.placeholder.app">
    <application>
        <activity android:name=".MainActivity"/>
    </application>
</manifest>
`

// fixtureManifestMultiNamespace declares both android: and tools:
// prefixes once, on the root <manifest> tag, then uses them several
// levels deep with no re-declaration — the shape that exposes
// encoding/xml's lack of an ancestor-aware namespace prefix table.
const fixtureManifestMultiNamespace = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:tools="http://schemas.android.com/tools"
    package="com.placeholder.app">
    <application android:label="Placeholder" android:icon="@mipmap/ic_launcher" tools:ignore="AllowBackup">
        <activity android:name=".MainActivity" android:exported="true" tools:node="replace">
            <intent-filter>
                <action android:name="android.intent.action.MAIN"/>
            </intent-filter>
        </activity>
    </application>
</manifest>
`

// elementAttrs decodes out and returns the Local-named attributes of the
// first start element with the given local name, keyed by attribute
// Local name. Decoding resolves a namespaced attribute's prefix to its
// full URI, so this intentionally can't see what prefix was actually
// printed on the wire — use rawQualifiedNames for that.
func elementAttrs(t *testing.T, doc []byte, elementLocal string) map[string]string {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != elementLocal {
			continue
		}
		out := map[string]string{}
		for _, a := range start.Attr {
			out[a.Name.Local] = a.Value
		}
		return out
	}
	t.Fatalf("element %q not found in output", elementLocal)
	return nil
}

// rawQualifiedNames scans the first occurrence of "<elementLocal" in doc
// and returns the literal "prefix:local" (or bare "local") attribute
// names as they actually appear on the wire, bypassing the decoder's
// prefix-to-URI resolution so a mangled auto-generated prefix (e.g.
// "_2:exported" instead of "android:exported") would show up directly.
func rawQualifiedNames(t *testing.T, doc []byte, elementLocal string) []string {
	t.Helper()
	s := string(doc)
	needle := "<" + elementLocal
	idx := strings.Index(s, needle)
	require.NotEqual(t, -1, idx, "element %q not found in raw output", elementLocal)
	rest := s[idx+len(needle):]
	end := strings.IndexAny(rest, ">")
	require.NotEqual(t, -1, end, "unterminated start tag for %q", elementLocal)
	tag := rest[:end]

	var names []string
	attrRe := regexp.MustCompile(`([\w:.-]+)\s*=\s*"`)
	for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
		names = append(names, m[1])
	}
	return names
}

func elementOrder(t *testing.T, doc []byte) []string {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var order []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if start, ok := tok.(xml.StartElement); ok {
			order = append(order, start.Name.Local)
		}
	}
	return order
}

func TestTransform_OverlaysPackageIdentity(t *testing.T) {
	pkg := &model.PackageInfo{
		Package:     "com.example.app",
		Version:     "2.3.0",
		VersionCode: 7,
		MinSDK:      21,
		TargetSDK:   34,
		Label:       "Example",
		Icon:        "@mipmap/icon",
	}

	var out bytes.Buffer
	require.NoError(t, Transform(bytes.NewReader([]byte(fixtureManifest)), &out, pkg))

	manifestAttrs := elementAttrs(t, out.Bytes(), "manifest")
	assert.Equal(t, "com.example.app", manifestAttrs["package"])
	assert.Equal(t, "2.3.0", manifestAttrs["versionName"])
	assert.Equal(t, "7", manifestAttrs["versionCode"])

	appAttrs := elementAttrs(t, out.Bytes(), "application")
	assert.Equal(t, "Example", appAttrs["label"])
	assert.Equal(t, "@mipmap/icon", appAttrs["icon"])
}

func TestTransform_SynthesizesUsesSDKWhenAbsent(t *testing.T) {
	pkg := &model.PackageInfo{Package: "com.example.app", MinSDK: 23, TargetSDK: 34}

	var out bytes.Buffer
	require.NoError(t, Transform(bytes.NewReader([]byte(fixtureManifestNoSDK)), &out, pkg))

	order := elementOrder(t, out.Bytes())
	require.Contains(t, order, "uses-sdk")

	sdkAttrs := elementAttrs(t, out.Bytes(), "uses-sdk")
	assert.Equal(t, "23", sdkAttrs["minSdkVersion"])
	assert.Equal(t, "34", sdkAttrs["targetSdkVersion"])

	// uses-sdk must precede application, synthesized right before it.
	var sdkIdx, appIdx int
	for i, name := range order {
		if name == "uses-sdk" {
			sdkIdx = i
		}
		if name == "application" {
			appIdx = i
		}
	}
	assert.Less(t, sdkIdx, appIdx)
}

func TestTransform_PreservesUnknownElements(t *testing.T) {
	pkg := &model.PackageInfo{Package: "com.example.app"}

	var out bytes.Buffer
	require.NoError(t, Transform(bytes.NewReader([]byte(fixtureManifest)), &out, pkg))

	order := elementOrder(t, out.Bytes())
	assert.Contains(t, order, "uses-permission")
	assert.Contains(t, order, "activity")

	permAttrs := elementAttrs(t, out.Bytes(), "uses-permission")
	assert.Equal(t, "android.permission.INTERNET", permAttrs["name"])
}

func TestTransform_RoundTripsNestedNamespacedAttributes(t *testing.T) {
	pkg := &model.PackageInfo{Package: "com.example.app", MinSDK: 21, TargetSDK: 34}

	var out bytes.Buffer
	require.NoError(t, Transform(bytes.NewReader([]byte(fixtureManifestMultiNamespace)), &out, pkg))

	// Functional check: the decoder still resolves every namespaced
	// attribute to its original value regardless of prefix.
	activityAttrs := elementAttrs(t, out.Bytes(), "activity")
	assert.Equal(t, ".MainActivity", activityAttrs["name"])
	assert.Equal(t, "true", activityAttrs["exported"])
	assert.Equal(t, "replace", activityAttrs["node"])

	actionAttrs := elementAttrs(t, out.Bytes(), "action")
	assert.Equal(t, "android.intent.action.MAIN", actionAttrs["name"])

	// Wire-level check: the prefixes declared once on <manifest> must
	// still read literally as "android:" and "tools:" several levels
	// down, not some encoder-invented "_2:"-style substitute.
	assert.ElementsMatch(t, []string{"android:name", "android:exported", "tools:node"},
		rawQualifiedNames(t, out.Bytes(), "activity"))
	assert.Contains(t, rawQualifiedNames(t, out.Bytes(), "action"), "android:name")
	assert.Contains(t, rawQualifiedNames(t, out.Bytes(), "application"), "tools:ignore")
}

func TestTransform_NilPackagePassesThroughUnmodified(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Transform(bytes.NewReader([]byte(fixtureManifest)), &out, nil))

	manifestAttrs := elementAttrs(t, out.Bytes(), "manifest")
	assert.Equal(t, "com.placeholder.app", manifestAttrs["package"])
	assert.NotContains(t, manifestAttrs, "versionName")

	order := elementOrder(t, out.Bytes())
	assert.NotContains(t, order, "uses-sdk")
}

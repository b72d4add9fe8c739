// Package errs defines the error taxonomy spawn uses for every failure
// surface: config/manifest loading, network fetches, metadata parsing,
// version resolution, archive unpacking and cache I/O. Callers match on
// Kind via errors.As instead of comparing error strings.
package errs

import "fmt"

// Kind tags an Error with one of the fixed failure categories.
type Kind string

const (
	ConfigIO          Kind = "ConfigIO"
	ConfigSyntax      Kind = "ConfigSyntax"
	ConfigShape       Kind = "ConfigShape"
	ManifestMissing   Kind = "ManifestMissing"
	ManifestParse     Kind = "ManifestParse"
	Network           Kind = "Network"
	ArtifactNotFound  Kind = "ArtifactNotFound"
	MetadataMissing   Kind = "MetadataMissing"
	MetadataParse     Kind = "MetadataParse"
	VersionResolution Kind = "VersionResolution"
	UnsafeArchivePath Kind = "UnsafeArchivePath"
	Unpack            Kind = "Unpack"
	CacheIO           Kind = "CacheIO"
	EmitIO            Kind = "EmitIO"
)

// Error is the concrete error type carried through the resolver and emitter.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

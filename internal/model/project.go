package model

// PackageInfo is the [package] section of a spawn TOML config: identity
// and SDK-range fields overlaid onto the manifest by internal/manifest.
type PackageInfo struct {
	Package     string
	Version     string
	VersionCode int
	Label       string
	Icon        string
	MinSDK      int
	TargetSDK   int
}

// SignInfo is the [sign] section: keystore + alias consumed by the
// emitted sign_apk step.
type SignInfo struct {
	Keystore string
	Alias    string
}

// Project is the result of internal/config.Load: merged metadata,
// declared dependencies, extra repositories and module layout.
type Project struct {
	Package      *PackageInfo
	Sign         *SignInfo
	Repositories []string
	// Dependencies maps a "group:name" coordinate prefix to its declared
	// version string, as written in [dependencies] tables.
	Dependencies map[string]string
	BasePath     string
	// Modules holds the paths of every configuration file that was
	// merged into this Project (the root file plus any discovered
	// module.toml descriptors).
	Modules []string
}

// ResolvedSet maps a "group:name" id to the artifact version that won
// conflict resolution for it.
type ResolvedSet map[string]Artifact

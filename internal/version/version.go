package version

// Version is the spawn build graph schema version emitted in build.ninja's
// header comment. Bump it when the shape of the emitted build description
// changes in a way the downstream executor needs to detect.
const Version = "0.1.0"

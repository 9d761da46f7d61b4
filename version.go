package arbor

// Version is the library version. Overridden at build time with
// -ldflags "-X github.com/seedworks/arbor.Version=...".
var Version = "0.3.0"

package build

// Version is the release of the image analysis handlers, set at build time
// with -ldflags "-X github.com/imganalysis/imganalysis/pkg/build.Version=...".
var Version = "v0.0.0-dev"

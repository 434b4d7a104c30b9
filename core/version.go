package core

// Build information, set at build time via ldflags:
//
//	go build -ldflags "-X reportmailer/core.Version=$(git describe --tags --always) \
//	    -X reportmailer/core.GitCommit=$(git rev-parse --short HEAD)" .
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// VersionInfo returns the version with the commit when known, e.g.
// "v1.2.0 (abc1234)" or "dev".
func VersionInfo() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}

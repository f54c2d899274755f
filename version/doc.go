// Package version reports build information for the adapters binary.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/adapters/version.Version=1.2.0" ./cmd/adapters
//
// Missing values fall back to the VCS stamps in the binary's build info.
package version

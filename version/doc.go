// Package version reports build information for kanko-export.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/kanko/version.Version=1.2.0" ./cmd/kanko-export
//
// Without ldflags the VCS stamp from the Go toolchain is used when present.
package version

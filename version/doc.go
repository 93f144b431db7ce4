// Package version reports the build identity of the hpcparser binary.
//
// Version, commit, branch and build time are injected with -ldflags and
// completed from the module's embedded VCS settings when absent:
//
//	go build -ldflags "-X github.com/kbukum/hpcparser/version.Version=1.2.0" ./cmd/hpcparser
//
// The same Info feeds the --version flag and the telemetry resource.
package version

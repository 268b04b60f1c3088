// Package constant defines immutable application-level identifiers.
package constant

const (
	// Maboroshi is the canonical application identifier used for filesystem paths and CLI branding.
	Maboroshi = "maboroshi"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository is the upstream location used for release lookups.
	Repository = "maboroshi-cli/maboroshi"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Logo is the banner printed in the root command help.
const Logo = `
  ┌┬┐┌─┐┌┐ ┌─┐┬─┐┌─┐┌─┐┬ ┬┬
  │││├─┤├┴┐│ │├┬┘│ │└─┐├─┤│
  ┴ ┴┴ ┴└─┘└─┘┴└─└─┘└─┘┴ ┴┴`

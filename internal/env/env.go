package env

// AppName is the canonical binary name.
const AppName = "vmufuse"

// Build-time metadata, injected via -ldflags.
var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)

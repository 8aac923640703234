package env

// Set at build time with -ldflags "-X github.com/ostafen/gifreel/internal/env.Version=...".
var (
	AppName    = "gifreel"
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

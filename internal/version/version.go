package version

// Version is set at build time via -ldflags "-X tokmeta/internal/version.Version=..."
var Version = "0.3.1"

package config

const (
	DefaultListen       = ":8080"
	DefaultUpstream     = "http://127.0.0.1:8081"
	DefaultBufferSize   = 16 * 1024
	DefaultArenaLimit   = 8 * 1024 * 1024
	DefaultPattern      = "DEADBEEF"
	DefaultScanMode     = "segment"
	DefaultRejectStatus = 403
)

// DefaultLogDir returns the default log directory path.
func DefaultLogDir() string {
	return "~/.bodyguard/logs"
}

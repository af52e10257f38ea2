// Package rwfcfg is a small typed configuration struct with shipped
// defaults; the transport and ws packages take their settings as explicit
// arguments and do not import it. File-based config loading is out of scope
// (spec.md §1); callers populate this struct directly, the way the
// teacher's cmn.Config is populated externally and only consumed here.
package rwfcfg

import "time"

// Config bundles buffer-pool sizing, WebSocket limits, compression
// defaults, and sub-protocol preference used across a server or client
// instance.
type Config struct {
	// BufferPool
	GuaranteedBuffersPerChannel int

	// WebSocket
	MaxPayloadBytes int
	FlushInterval   time.Duration

	// Compression
	PermessageDeflate       bool
	ClientNoContextTakeover bool
	ServerNoContextTakeover bool

	// SubProtocolPreference is tried in order during server-side
	// negotiation (spec.md §4.8).
	SubProtocolPreference []string
}

// Default returns the configuration this module ships with absent any
// caller override.
func Default() Config {
	return Config{
		GuaranteedBuffersPerChannel: 16,
		MaxPayloadBytes:             10 * 1024 * 1024,
		FlushInterval:               10 * time.Millisecond,
		PermessageDeflate:           true,
		ClientNoContextTakeover:     false,
		ServerNoContextTakeover:     false,
		SubProtocolPreference:       []string{"rssl.rwf", "rssl.json.v2"},
	}
}

package routing

import "errors"

// Sentinel errors for the error kinds of spec.md §7 that are surfaced to
// a caller rather than handled as a silent drop.
var (
	// ErrNoRoute is returned by SetHeader when no route to dst is known.
	// It is the one error the contract surfaces upward.
	ErrNoRoute = errors.New("routing: no route to destination")

	// ErrHeaderInstallFailed is returned when the MAC refuses to install
	// its own header; the forwarder that sees this drops the packet.
	ErrHeaderInstallFailed = errors.New("routing: mac header install failed")

	// ErrNotBound is returned when an operation targets a node that was
	// never successfully Bind'd.
	ErrNotBound = errors.New("routing: node not bound")
)

// ConfigError reports an invalid per-node or class-wide parameter,
// mirroring the teacher's ErrParseLinkState: a named error type carrying
// just enough context to explain what failed and why.
type ConfigError struct {
	Key string
	Msg string
}

func (e ConfigError) Error() string {
	if e.Key == "" {
		return "routing: invalid configuration: " + e.Msg
	}
	return "routing: invalid configuration for " + e.Key + ": " + e.Msg
}

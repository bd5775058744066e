package encoder

import (
	"context"
)

// Encoder runs one synchronous encode, transcode or copy request
type Encoder interface {
	Encode(ctx context.Context, req Request) error
}

// CommandRunner executes an external command and returns its combined output
// (enables mocking in tests)
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

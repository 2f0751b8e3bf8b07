// Package encoder provides the text-encoding capability the retrieval
// pipeline scores with. The pipeline only requires Encode(text) -> vector;
// any backend that is deterministic for a fixed model and input satisfies
// the contract.
package encoder

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every failure to obtain an embedding. There is no
// fallback scoring, so callers must treat it as fatal for the invocation.
var ErrUnavailable = errors.New("encoder unavailable")

type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

package mock

import (
	"context"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Compile-time interface check
var _ authinbox.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of authinbox.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, rawContent string) authinbox.Outcome
}

func (e *Extractor) Extract(ctx context.Context, rawContent string) authinbox.Outcome {
	if e.ExtractFn != nil {
		return e.ExtractFn(ctx, rawContent)
	}
	// No code present by default
	return authinbox.EmptyOutcome(1)
}

package mock

import (
	"context"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// Compile-time interface check
var _ authinbox.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of authinbox.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, title, code string)
}

func (n *Notifier) Notify(ctx context.Context, title, code string) {
	if n.NotifyFn != nil {
		n.NotifyFn(ctx, title, code)
	}
}

package mock

import (
	"context"

	"github.com/fwojciec/readtext"
)

var _ readtext.PageLimiter = (*PageLimiter)(nil)

// PageLimiter is a mock implementation of readtext.PageLimiter.
type PageLimiter struct {
	WaitFn func(ctx context.Context, pageURL string) error
}

func (l *PageLimiter) Wait(ctx context.Context, pageURL string) error {
	return l.WaitFn(ctx, pageURL)
}

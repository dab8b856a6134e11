package mock

import (
	"context"

	"github.com/fwojciec/readtext"
)

var _ readtext.ArticleReader = (*ArticleReader)(nil)

// ArticleReader is a mock implementation of readtext.ArticleReader.
type ArticleReader struct {
	ReadFn func(ctx context.Context, url string) (*readtext.Article, error)
}

func (r *ArticleReader) Read(ctx context.Context, url string) (*readtext.Article, error) {
	return r.ReadFn(ctx, url)
}

package analyzers

import (
	"context"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// RunGuarded exposes the shared run harness to external tests.
func RunGuarded(ctx context.Context, name string, actx *domain.AnalysisContext, gen domain.FixGenerator, fn func(res *domain.Result) error, opts ...Option) domain.Result {
	return run(ctx, newSettings(opts), name, actx, gen, fn)
}

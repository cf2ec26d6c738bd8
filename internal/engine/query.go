package engine

import (
	"context"

	"github.com/firelinelabs/tradespace/internal/compose"
	"github.com/firelinelabs/tradespace/internal/pareto"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// QueryOptions tunes one feasibility query.
type QueryOptions struct {
	// Epsilon treats objective values within epsilon as equal during
	// dominance comparison, the same tolerance Solve honors. Zero means
	// exact.
	Epsilon float64
}

// Query returns the nondominated feasible designs whose provided vector
// is component-wise at least atLeast. Fails with
// *core.NoFeasibleDesignError when nothing qualifies; retrying with the
// same catalogues and constraints is deterministic, so callers report
// rather than retry.
func (e *Engine) Query(ctx context.Context, atLeast core.Vector, opts QueryOptions) ([]*core.SystemDesign, error) {
	if err := e.ensureDiscovered(); err != nil {
		return nil, err
	}

	candidates, err := e.enumerateAll(ctx)
	if err != nil {
		return nil, err
	}

	return pareto.MinimalFor(
		pareto.ObjectivesFromModel(e.designModel),
		pareto.Options{Epsilon: opts.Epsilon},
		candidates,
		atLeast,
	)
}

// ComposeSelection composes one explicit selection given implementation
// names per role. Unlike bulk enumeration, infeasibility here is a hard
// error surfaced to the caller.
func (e *Engine) ComposeSelection(names map[string]string) (*core.SystemDesign, error) {
	if err := e.ensureDiscovered(); err != nil {
		return nil, err
	}

	sel := make(core.Selection, len(names))
	for role, name := range names {
		cat, err := e.store.Get(role)
		if err != nil {
			return nil, err
		}
		impl := cat.Get(name)
		if impl == nil {
			return nil, &core.UnknownImplementationError{Role: role, Name: name}
		}
		sel[role] = impl
	}

	return e.composer.Compose(sel)
}

// enumerateAll materializes every feasible design, honoring cancellation.
func (e *Engine) enumerateAll(ctx context.Context) ([]*core.SystemDesign, error) {
	cats, err := e.roleCatalogues()
	if err != nil {
		return nil, err
	}

	enum := compose.NewEnumerator(e.composer, cats)
	var designs []*core.SystemDesign
	for n := int64(0); ; n++ {
		if n%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		design, ok := enum.Next()
		if !ok {
			break
		}
		designs = append(designs, design)
	}
	if err := enum.Err(); err != nil {
		return nil, err
	}
	return designs, nil
}

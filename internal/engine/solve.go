package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/firelinelabs/tradespace/internal/compose"
	"github.com/firelinelabs/tradespace/internal/pareto"
	"github.com/firelinelabs/tradespace/pkg/core"
)

// ctxCheckInterval bounds how many candidates are composed between
// context checks in the serial path.
const ctxCheckInterval = 256

// SolveOptions tunes one tradespace computation.
type SolveOptions struct {
	// Epsilon treats objective values within epsilon as equal during
	// dominance comparison. Zero means exact.
	Epsilon float64
	// Workers > 1 partitions the first role's catalogue across
	// goroutines, computes local antichains, and merges them.
	Workers int
	// PartitionQuantity, when set, additionally partitions the feasible
	// candidates by this provided quantity (bucket width PartitionWidth)
	// and maintains one antichain per bucket. Buckets are reduced from
	// the candidate pool, not from the global frontier, so a design that
	// is globally dominated can still surface as bucket-optimal.
	PartitionQuantity string
	PartitionWidth    float64
}

// SolveResult is the outcome of one computation.
type SolveResult struct {
	// Run is the recorded history entry (nil when history is disabled)
	Run *core.SolveRun
	// Set is the nondominated antichain
	Set *pareto.Set
	// Candidates is the full cross-product size
	Candidates int64
	// Feasible counts candidates surviving constraint filtering
	Feasible int64
	// Buckets holds one antichain per partition key when
	// SolveOptions.PartitionQuantity was set, nil otherwise
	Buckets map[float64]*pareto.Set
	// Elapsed is the wall-clock computation time
	Elapsed time.Duration
}

// bucketSets accumulates one antichain per partition key of a provided
// quantity. A nil bucketSets records nothing.
type bucketSets struct {
	quantity   string
	width      float64
	objectives []pareto.Objective
	popts      pareto.Options
	sets       map[float64]*pareto.Set
}

func newBucketSets(objectives []pareto.Objective, popts pareto.Options, opts SolveOptions) *bucketSets {
	if opts.PartitionQuantity == "" {
		return nil
	}
	return &bucketSets{
		quantity:   opts.PartitionQuantity,
		width:      opts.PartitionWidth,
		objectives: objectives,
		popts:      popts,
		sets:       make(map[float64]*pareto.Set),
	}
}

func (b *bucketSets) insert(design *core.SystemDesign) {
	if b == nil {
		return
	}
	v, ok := design.Provides.Get(b.quantity)
	if !ok {
		return
	}
	key := pareto.BucketKey(v, b.width)
	set := b.sets[key]
	if set == nil {
		set = pareto.NewSet(b.objectives, b.popts)
		b.sets[key] = set
	}
	set.Insert(design)
}

func (b *bucketSets) merge(other *bucketSets) {
	if b == nil || other == nil {
		return
	}
	for key, set := range other.sets {
		into := b.sets[key]
		if into == nil {
			b.sets[key] = set
			continue
		}
		into.Merge(set)
	}
}

func (b *bucketSets) result() map[float64]*pareto.Set {
	if b == nil {
		return nil
	}
	return b.sets
}

// Solve enumerates the catalogue cross product, skips infeasible
// combinations, and reduces the survivors to the Pareto antichain.
// Cancellation aborts the enumeration and returns ctx.Err(); a cancelled
// run never yields a partial antichain.
func (e *Engine) Solve(ctx context.Context, opts SolveOptions) (*SolveResult, error) {
	if err := e.ensureDiscovered(); err != nil {
		return nil, err
	}

	var run *core.SolveRun
	if e.runs != nil {
		created, err := e.runs.CreateSolveRun(e.environment, e.designModel.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create solve run: %w", err)
		}
		run = created
	}

	start := time.Now()
	result, err := e.solve(ctx, opts)
	if err != nil {
		e.completeRun(run, statusFor(err), 0, 0, 0, err.Error())
		return nil, err
	}

	result.Run = run
	result.Elapsed = time.Since(start)
	e.completeRun(run, core.SolveRunStatusCompleted,
		result.Candidates, result.Feasible, int64(result.Set.Len()), "")

	e.logger.Info("solve completed",
		"model", e.designModel.Name,
		"candidates", result.Candidates,
		"feasible", result.Feasible,
		"frontier", result.Set.Len(),
		"elapsed", result.Elapsed.Round(time.Millisecond))

	return result, nil
}

func (e *Engine) solve(ctx context.Context, opts SolveOptions) (*SolveResult, error) {
	cats, err := e.roleCatalogues()
	if err != nil {
		return nil, err
	}

	objectives := pareto.ObjectivesFromModel(e.designModel)
	popts := pareto.Options{Epsilon: opts.Epsilon}
	total := compose.NewEnumerator(e.composer, cats).Total()

	if opts.Workers > 1 && len(cats) > 0 && cats[0].Len() > 1 {
		return e.solveParallel(ctx, cats, objectives, popts, opts, total)
	}

	enum := compose.NewEnumerator(e.composer, cats)
	set := pareto.NewSet(objectives, popts)
	buckets := newBucketSets(objectives, popts, opts)
	var feasible int64
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
		feasible++
		set.Insert(design)
		buckets.insert(design)
	}
	if err := enum.Err(); err != nil {
		return nil, err
	}

	return &SolveResult{Set: set, Candidates: total, Feasible: feasible, Buckets: buckets.result()}, nil
}

// solveParallel splits the first role's catalogue across workers. Each
// worker computes a local antichain; merging partial antichains by
// repeated insert is the reduction discipline that keeps insertion off
// any shared set.
func (e *Engine) solveParallel(ctx context.Context, cats []*core.Catalogue, objectives []pareto.Objective, popts pareto.Options, opts SolveOptions, total int64) (*SolveResult, error) {
	first := cats[0]
	workers := opts.Workers
	if workers > first.Len() {
		workers = first.Len()
	}

	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var feasible int64
	merged := pareto.NewSet(objectives, popts)
	mergedBuckets := newBucketSets(objectives, popts, opts)

	chunk := (first.Len() + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, first.Len())
		if lo >= hi {
			break
		}

		part := &core.Catalogue{Role: first.Role, Implementations: first.Implementations[lo:hi]}
		workerCats := append([]*core.Catalogue{part}, cats[1:]...)

		g.Go(func() error {
			enum := compose.NewEnumerator(e.composer, workerCats)
			local := pareto.NewSet(objectives, popts)
			localBuckets := newBucketSets(objectives, popts, opts)
			var localFeasible int64
			for n := int64(0); ; n++ {
				if n%ctxCheckInterval == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}
				design, ok := enum.Next()
				if !ok {
					break
				}
				localFeasible++
				local.Insert(design)
				localBuckets.insert(design)
			}
			if err := enum.Err(); err != nil {
				return err
			}

			mu.Lock()
			feasible += localFeasible
			merged.Merge(local)
			mergedBuckets.merge(localBuckets)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &SolveResult{Set: merged, Candidates: total, Feasible: feasible, Buckets: mergedBuckets.result()}, nil
}

// completeRun records the run outcome, logging (not failing) on error.
func (e *Engine) completeRun(run *core.SolveRun, status core.SolveRunStatus, candidates, feasible, frontier int64, errMsg string) {
	if run == nil || e.runs == nil {
		return
	}
	if err := e.runs.CompleteSolveRun(run.ID, status, candidates, feasible, frontier, errMsg); err != nil {
		e.logger.Error("failed to record solve run", "run_id", run.ID, "error", err)
	}
}

func statusFor(err error) core.SolveRunStatus {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return core.SolveRunStatusCancelled
	}
	return core.SolveRunStatusFailed
}

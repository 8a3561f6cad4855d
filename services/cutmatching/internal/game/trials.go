package game

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"cutmatching/pkg/apperror"
	"cutmatching/services/cutmatching/internal/graph"
)

// RunTrials plays `trials` independent games on g concurrently. Trial i is
// seeded with baseSeed+i, so the verdicts are reproducible and returned in
// trial order. The first error cancels the remaining trials.
//
// opts are shared by every trial; a Reporter among them must be safe for
// concurrent use. WithRand is overridden by the per-trial seed.
func RunTrials(ctx context.Context, g *graph.Graph, first, past, trials int, baseSeed uint64, opts ...Option) ([]*Verdict, error) {
	if trials < 1 {
		return nil, apperror.Newf(apperror.CodeInvalidArgument, "trials must be >= 1, got %d", trials).
			WithField("trials")
	}
	if g == nil {
		return nil, apperror.ErrNilGraph
	}

	verdicts := make([]*Verdict, trials)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i := range trials {
		trialOpts := append(slices.Clone(opts), WithSeed(baseSeed+uint64(i)))
		eg.Go(func() error {
			game, err := New(g, first, past, trialOpts...)
			if err != nil {
				return err
			}
			v, err := game.Run(ctx)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

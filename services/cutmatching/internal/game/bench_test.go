package game

import (
	"context"
	"fmt"
	"testing"

	"cutmatching/pkg/logger"
	"cutmatching/services/cutmatching/internal/algorithms"
)

// torusLists returns an n x n grid with wrap-around edges.
func torusLists(n int) [][]int {
	lists := make([][]int, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			lists[r*n+c] = []int{
				r*n + (c+1)%n,
				r*n + (c+n-1)%n,
				((r+1)%n)*n + c,
				((r+n-1)%n)*n + c,
			}
		}
	}
	return lists
}

func BenchmarkRun(b *testing.B) {
	g, first, past := subdivided(b, torusLists(8))

	for _, solver := range []algorithms.Solver{algorithms.EdmondsKarp{}, algorithms.PushRelabel{}} {
		for _, vectors := range []int{0, 4} {
			b.Run(fmt.Sprintf("%s/vectors_%d", solver.Name(), vectors), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					game, err := New(g, first, past,
						WithSeed(uint64(i+1)),
						WithSolver(solver),
						WithRandomVectorCount(vectors),
						WithLogger(logger.Nop()),
					)
					if err != nil {
						b.Fatal(err)
					}
					if _, err := game.Run(context.Background()); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkMedianCut(b *testing.B) {
	g, first, past := subdivided(b, torusLists(32))
	game, err := New(g, first, past, WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	v := game.drawUnitVector()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		medianCut(v, first)
	}
}

package population

import (
	"slices"
	"testing"

	"geneticload/internal/random"
)

type scriptedMeiosis struct {
	count int
	sites []int
	coins []bool
}

func (s *scriptedMeiosis) Binomial(int, float64) int { return s.count }

func (s *scriptedMeiosis) IntN(int) int {
	v := s.sites[0]
	s.sites = s.sites[1:]
	return v
}

func (s *scriptedMeiosis) Bernoulli(float64) bool {
	v := s.coins[0]
	s.coins = s.coins[1:]
	return v
}

func TestDrawBreakpointsSortsAndMergesChromosomeEnds(t *testing.T) {
	rng := &scriptedMeiosis{
		count: 3,
		sites: []int{40, 7, 40},
		// end 19 kept, end 29 dropped, start copy 1
		coins: []bool{true, false, true},
	}
	bp, start := drawBreakpoints(rng, 50, 0.1, []int{19, 29})
	if !slices.Equal(bp, []int{7, 19, 40}) {
		t.Fatalf("unexpected breakpoints %v", bp)
	}
	if start != 1 {
		t.Fatalf("expected start copy 1, got %d", start)
	}
}

func TestDrawBreakpointsStaysInGenome(t *testing.T) {
	rng := random.New(3)
	for range 200 {
		bp, start := drawBreakpoints(rng, 100, 0.05, []int{24, 49, 74})
		if start != 0 && start != 1 {
			t.Fatalf("unexpected start copy %d", start)
		}
		if !slices.IsSorted(bp) {
			t.Fatalf("breakpoints not sorted: %v", bp)
		}
		if len(slices.Compact(slices.Clone(bp))) != len(bp) {
			t.Fatalf("duplicate breakpoints: %v", bp)
		}
		for _, p := range bp {
			if p < 0 || p >= 100 {
				t.Fatalf("breakpoint %d outside genome", p)
			}
		}
	}
}

func TestDrawBreakpointsWithoutRecombination(t *testing.T) {
	rng := random.New(9)
	for range 50 {
		if bp, _ := drawBreakpoints(rng, 100, 0, nil); len(bp) != 0 {
			t.Fatalf("expected no breakpoints, got %v", bp)
		}
	}
}

package discovery

import (
	"math/rand/v2"
	"testing"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func candidateList(urls ...string) []Candidate {
	cands := make([]Candidate, len(urls))
	for i, u := range urls {
		cands[i] = Candidate{URL: u, Title: "t-" + u}
	}
	return cands
}

func TestSelect_ExcludesSeed(t *testing.T) {
	cands := candidateList("https://x/a", "https://x/b", "https://x/c")

	for seed := uint64(1); seed <= 50; seed++ {
		winner, ok := Select(cands, "https://x/a", testRand(seed))
		if !ok {
			t.Fatal("Select reported no candidates")
		}
		if winner.URL == "https://x/a" {
			t.Fatalf("seed %d: Select returned the excluded URL", seed)
		}
	}
}

func TestSelect_EmptyAfterFilter(t *testing.T) {
	tests := []struct {
		name    string
		cands   []Candidate
		exclude string
	}{
		{name: "no candidates", cands: nil, exclude: "https://x/a"},
		{name: "only the excluded url", cands: candidateList("https://x/a", "https://x/a"), exclude: "https://x/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Select(tt.cands, tt.exclude, testRand(1)); ok {
				t.Error("Select returned a winner, want none")
			}
		})
	}
}

func TestSelect_WinnerWithinWindow(t *testing.T) {
	cands := candidateList(
		"https://x/1", "https://x/2", "https://x/3", "https://x/4", "https://x/5",
	)

	window := map[string]bool{
		"https://x/1": true,
		"https://x/2": true,
		"https://x/3": true,
	}

	for seed := uint64(1); seed <= 100; seed++ {
		winner, ok := Select(cands, "", testRand(seed))
		if !ok {
			t.Fatal("Select reported no candidates")
		}
		if !window[winner.URL] {
			t.Fatalf("seed %d: winner %s is outside the top-3 window", seed, winner.URL)
		}
	}
}

func TestSelect_WindowNarrowsAfterFilter(t *testing.T) {
	// Excluding the head entry shifts the window onto the survivors.
	cands := candidateList("https://x/a", "https://x/b", "https://x/c", "https://x/d", "https://x/e")

	window := map[string]bool{
		"https://x/b": true,
		"https://x/c": true,
		"https://x/d": true,
	}

	for seed := uint64(1); seed <= 100; seed++ {
		winner, ok := Select(cands, "https://x/a", testRand(seed))
		if !ok {
			t.Fatal("Select reported no candidates")
		}
		if !window[winner.URL] {
			t.Fatalf("seed %d: winner %s is outside the filtered window", seed, winner.URL)
		}
	}
}

func TestSelect_SingleCandidate(t *testing.T) {
	cands := candidateList("https://x/only")

	winner, ok := Select(cands, "https://x/other", testRand(7))
	if !ok {
		t.Fatal("Select reported no candidates")
	}
	if winner.URL != "https://x/only" {
		t.Errorf("winner = %s, want https://x/only", winner.URL)
	}
}

func TestSelect_NilRandUsesGlobalSource(t *testing.T) {
	cands := candidateList("https://x/a", "https://x/b")

	winner, ok := Select(cands, "", nil)
	if !ok {
		t.Fatal("Select reported no candidates")
	}
	if winner.URL != "https://x/a" && winner.URL != "https://x/b" {
		t.Errorf("unexpected winner %s", winner.URL)
	}
}

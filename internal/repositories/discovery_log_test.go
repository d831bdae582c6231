package repositories

import (
	"testing"

	"github.com/sablewood/driftplay/internal/discovery"
	"github.com/sablewood/driftplay/internal/shared"
)

func testRepo(t *testing.T) *DiscoveryLogRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewDiscoveryLogRepository(db)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return repo
}

func TestDiscoveryLogRepository_RecordAndRecent(t *testing.T) {
	repo := testRepo(t)

	winners := []discovery.Candidate{
		{URL: "https://x/b", Title: "Song B"},
		{URL: "https://x/c", Title: "Song C"},
		{URL: "https://x/d", Title: "Song D"},
	}
	for _, w := range winners {
		if err := repo.Record("https://x/a", w); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	for _, e := range entries {
		if e.SeedURL != "https://x/a" {
			t.Errorf("entry seed = %q, want https://x/a", e.SeedURL)
		}
		if e.ID == "" {
			t.Error("entry has no generated ID")
		}
		if e.CreatedAt.IsZero() {
			t.Error("entry has no timestamp")
		}
	}
}

func TestDiscoveryLogRepository_RecentLimit(t *testing.T) {
	repo := testRepo(t)

	for i := 0; i < 5; i++ {
		if err := repo.Record("https://x/a", discovery.Candidate{URL: "https://x/b", Title: "Song B"}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestDiscoveryLogRepository_RecentEmpty(t *testing.T) {
	repo := testRepo(t)

	entries, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty log, want 0", len(entries))
	}
}

func TestDiscoveryLogRepository_CountForSeed(t *testing.T) {
	repo := testRepo(t)

	repo.Record("https://x/a", discovery.Candidate{URL: "https://x/b", Title: "Song B"})
	repo.Record("https://x/a", discovery.Candidate{URL: "https://x/c", Title: "Song C"})
	repo.Record("https://x/z", discovery.Candidate{URL: "https://x/d", Title: "Song D"})

	count, err := repo.CountForSeed("https://x/a")
	if err != nil {
		t.Fatalf("CountForSeed failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

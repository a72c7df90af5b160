package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_KillSpree(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), AICount: 15, Kills: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, AICount: 15, Kills: 5})
	if !hasBookmark(bookmarks, BookmarkKillSpree) {
		t.Error("expected kill_spree bookmark")
	}
}

func TestBookmarkDetector_FeedingFrenzy(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), AICount: 15, EatRate: 2})
	}

	// A frenzy needs mass drops on the menu.
	if bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, AICount: 15, EatRate: 6}); hasBookmark(bookmarks, BookmarkFeedingFrenzy) {
		t.Error("frenzy without mass drops")
	}
	bookmarks := bd.Check(WindowStats{WindowEndTick: 3600, AICount: 15, EatRate: 8, MassDropsEaten: 4})
	if !hasBookmark(bookmarks, BookmarkFeedingFrenzy) {
		t.Error("expected feeding_frenzy bookmark")
	}
}

func TestBookmarkDetector_FoodCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := range 5 {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), AICount: 15, LiveFood: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, AICount: 15, LiveFood: 50})
	if !hasBookmark(bookmarks, BookmarkFoodCrash) {
		t.Error("expected food_crash bookmark")
	}

	// Peak reset: a further small drop does not re-trigger.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, AICount: 15, LiveFood: 45})
	if hasBookmark(bookmarks, BookmarkFoodCrash) {
		t.Error("food_crash re-triggered after peak reset")
	}
}

func TestBookmarkDetector_ArenaRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 600, AICount: 2})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, AICount: 4})
	if hasBookmark(bookmarks, BookmarkArenaRecovery) {
		t.Error("recovery below threshold")
	}
	bookmarks = bd.Check(WindowStats{WindowEndTick: 1800, AICount: 8})
	if !hasBookmark(bookmarks, BookmarkArenaRecovery) {
		t.Error("expected arena_recovery bookmark")
	}
}

func TestBookmarkDetector_StableArena(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired int
	for i := range 20 {
		bookmarks := bd.Check(WindowStats{WindowEndTick: uint64(i * 600), AICount: 15, LengthP50: 12})
		if hasBookmark(bookmarks, BookmarkStableArena) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable_arena fired %d times, want exactly once", fired)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(3) // clamped to 5
	if bd.historySize != 5 {
		t.Errorf("history size = %d, want 5", bd.historySize)
	}
	for i := range 6 {
		bd.Check(WindowStats{WindowEndTick: uint64(i), AICount: 15, LiveFood: 100})
	}
	bd.Reset()
	if len(bd.getHistory()) != 0 || bd.recentFoodPeak != 0 {
		t.Error("reset kept history")
	}
}

package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkKillSpree     BookmarkType = "kill_spree"
	BookmarkFeedingFrenzy BookmarkType = "feeding_frenzy"
	BookmarkArenaRecovery BookmarkType = "arena_recovery"
	BookmarkFoodCrash     BookmarkType = "food_crash"
	BookmarkStableArena   BookmarkType = "stable_arena"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Tick        uint64       `json:"tick"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the arena.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentAIMin        int // minimum AI count in recent history
	recentFoodPeak     int // peak live food in recent history
	stableWindowsCount int // consecutive windows with a stable arena
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable arena detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		recentAIMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Kill spree: kills > 2x rolling average
		if b := bd.checkKillSpree(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Feeding frenzy: eat rate > 2x rolling average
		if b := bd.checkFeedingFrenzy(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Arena recovery: AI was ≤3, now ≥3x that
		if b := bd.checkArenaRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Food crash: dropped >30% from recent peak
		if b := bd.checkFoodCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkStableArena(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if bd.recentAIMin < 0 || stats.AICount < bd.recentAIMin {
		bd.recentAIMin = stats.AICount
	}
	if stats.LiveFood > bd.recentFoodPeak {
		bd.recentFoodPeak = stats.LiveFood
	}

	return bookmarks
}

// Reset clears the history.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentAIMin = -1
	bd.recentFoodPeak = 0
	bd.stableWindowsCount = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkKillSpree(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalKills int
	for _, h := range history {
		totalKills += h.Kills
	}
	avgKills := float64(totalKills) / float64(len(history))
	if avgKills == 0 {
		return nil
	}

	if float64(stats.Kills) > avgKills*2.0 && stats.Kills >= 3 {
		return &Bookmark{
			Type:        BookmarkKillSpree,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d kills is %.1fx average (%.1f)", stats.Kills, float64(stats.Kills)/avgKills, avgKills),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkFeedingFrenzy(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalRate float64
	for _, h := range history {
		totalRate += h.EatRate
	}
	avgRate := totalRate / float64(len(history))
	if avgRate == 0 {
		return nil
	}

	if stats.EatRate > avgRate*2.0 && stats.MassDropsEaten > 0 {
		return &Bookmark{
			Type:        BookmarkFeedingFrenzy,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Eat rate %.1f/s is %.1fx average (%.1f/s)", stats.EatRate, stats.EatRate/avgRate, avgRate),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkArenaRecovery(stats WindowStats) *Bookmark {
	if bd.recentAIMin < 0 || bd.recentAIMin > 3 {
		return nil
	}

	threshold := max(bd.recentAIMin*3, 6)
	if stats.AICount >= threshold {
		// Reset the minimum after triggering
		oldMin := bd.recentAIMin
		bd.recentAIMin = stats.AICount

		return &Bookmark{
			Type:        BookmarkArenaRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("AI population recovered from %d to %d", oldMin, stats.AICount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkFoodCrash(stats WindowStats) *Bookmark {
	if bd.recentFoodPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.LiveFood)/float64(bd.recentFoodPeak)
	if dropPercent > 0.30 && stats.LiveFood < bd.recentFoodPeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentFoodPeak
		bd.recentFoodPeak = stats.LiveFood

		return &Bookmark{
			Type:        BookmarkFoodCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Food crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.LiveFood),
		}
	}

	return nil
}

// checkStableArena fires once after five consecutive windows in which both
// the AI count and the median length vary by less than 20%.
func (bd *BookmarkDetector) checkStableArena(stats WindowStats) *Bookmark {
	if stats.AICount < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	if bd.historyFull {
		// The ring is full; take the four newest in order.
		recent = make([]WindowStats, 4)
		for i := range recent {
			recent[i] = bd.history[(bd.historyIdx-4+i+bd.historySize)%bd.historySize]
		}
	}

	aiCV2 := cv2(recent, func(w WindowStats) float64 { return float64(w.AICount) })
	lenCV2 := cv2(recent, func(w WindowStats) float64 { return w.LengthP50 })

	if aiCV2 < 0.04 && lenCV2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableArena,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable arena with %d agents at median length %.0f over 5+ windows", stats.AICount, stats.LengthP50),
		}
	}

	return nil
}

// cv2 returns the squared coefficient of variation of field over windows.
func cv2(windows []WindowStats, field func(WindowStats) float64) float64 {
	var sum float64
	for _, w := range windows {
		sum += field(w)
	}
	mean := sum / float64(len(windows))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, w := range windows {
		d := field(w) - mean
		variance += d * d
	}
	variance /= float64(len(windows))
	return variance / (mean * mean)
}

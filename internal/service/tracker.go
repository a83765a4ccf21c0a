package service

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RepeatWindow is how long an identical message from the same author
// counts as a repeat.
const RepeatWindow = 5 * time.Second

type RecentMessageEntry struct {
	Text string
	At   time.Time
}

// RecentMessageTracker remembers the last message of each author. The
// cache only bounds memory; staleness is judged against the timestamps
// callers pass in, never the wall clock.
type RecentMessageTracker struct {
	mu      sync.Mutex
	entries *lru.Cache[string, RecentMessageEntry]
	window  time.Duration
}

func NewRecentMessageTracker(capacity int) *RecentMessageTracker {
	if capacity <= 0 {
		capacity = 10000
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, RecentMessageEntry](capacity)
	return &RecentMessageTracker{
		entries: entries,
		window:  RepeatWindow,
	}
}

// CheckRepeat reports whether text repeats the author's previous message
// within the repeat window.
func (t *RecentMessageTracker) CheckRepeat(authorID, text string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRepeat(authorID, text, now)
}

// Record overwrites the author's entry.
func (t *RecentMessageTracker) Record(authorID, text string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries.Add(authorID, RecentMessageEntry{Text: text, At: now})
}

// Observe checks and records in one step. A repeat leaves the stored
// entry untouched so a burst keeps matching the first occurrence.
func (t *RecentMessageTracker) Observe(authorID, text string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRepeat(authorID, text, now) {
		return true
	}
	t.entries.Add(authorID, RecentMessageEntry{Text: text, At: now})
	return false
}

// Reset drops every entry.
func (t *RecentMessageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries.Purge()
}

func (t *RecentMessageTracker) Len() int {
	return t.entries.Len()
}

func (t *RecentMessageTracker) isRepeat(authorID, text string, now time.Time) bool {
	last, ok := t.entries.Peek(authorID)
	if !ok {
		return false
	}
	return last.Text == text && now.Sub(last.At) < t.window
}

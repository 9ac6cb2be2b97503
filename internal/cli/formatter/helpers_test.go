package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences so assertions are
// terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"now", now, "Today"},
		{"future clamps to today", now.Add(48 * time.Hour), "Today"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"2 weeks", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestSavedLabel(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { t := now.Add(-d); return &t }

	assert.Equal(t, "never saved", stripANSI(SavedLabel(nil, now)))
	assert.Equal(t, "Just now", SavedLabel(at(10*time.Second), now))
	assert.Equal(t, "5m ago", SavedLabel(at(5*time.Minute), now))
	assert.Equal(t, "3h ago", SavedLabel(at(3*time.Hour), now))
	assert.Equal(t, "Yesterday", SavedLabel(at(25*time.Hour), now))
	assert.Equal(t, "Sep 30, 2025", SavedLabel(at(now.Sub(time.Date(2025, 9, 30, 9, 0, 0, 0, time.UTC))), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", Truncate("héllo wörld", 5))
	assert.Equal(t, "a b c", Truncate("a\n b\t c", 10), "whitespace collapses")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 notes", Plural(0, "note"))
	assert.Equal(t, "1 note", Plural(1, "note"))
	assert.Equal(t, "3 items", Plural(3, "item"))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdefgh", stripANSI(TruncID("abcdefgh-1234")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestRenderBox(t *testing.T) {
	got := stripANSI(RenderBox("Notes", "body"))
	assert.Contains(t, got, "NOTES")
	assert.Contains(t, got, "body")
	assert.True(t, strings.HasPrefix(got, "╭"))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	got := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{Bold("long cell"), "x"}, {"s", "y"}}))
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
}

func TestRenderTree(t *testing.T) {
	got := stripANSI(RenderTree([]TreeItem{
		{Title: "Note A", Active: true},
		{Title: "first", Level: 1, Detail: "i1"},
		{Title: "second", Level: 1, IsLast: true},
		{Title: "Note B"},
	}))
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "▶ Note A", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "├─ first"))
	assert.True(t, strings.HasSuffix(lines[1], "[ i1 ]"))
	assert.Equal(t, "└─ second", lines[2])
	assert.Equal(t, "Note B", lines[3])
}

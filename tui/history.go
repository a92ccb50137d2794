// Package tui provides a Bubble Tea terminal UI for the Aion combat engine.
package tui

// History keeps submitted commands for Up/Down recall. Browsing starts
// from a draft: whatever was typed before the first Up comes back when
// the user walks past the newest entry.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
	draft   string
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records a command and stops browsing. Repeating the newest entry
// does not add a new one.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if len(h.entries) > h.limit {
			h.entries = h.entries[len(h.entries)-h.limit:]
		}
	}
	h.Reset()
}

// Prev moves to the older entry. current is the text in the input line and
// is kept as the draft when browsing starts.
func (h *History) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next moves to the newer entry, ending at the draft.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Reset stops browsing and forgets the draft.
func (h *History) Reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

// Len returns the number of stored commands.
func (h *History) Len() int { return len(h.entries) }

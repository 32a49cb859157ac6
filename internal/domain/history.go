package domain

import "strings"

// HistoryEntry is one prompt/response exchange as stored on disk.
type HistoryEntry struct {
	User string `json:"user"`
	LLM  string `json:"llm"`
}

// HistoryLog is a chronological (oldest first) sequence of exchanges.
type HistoryLog []HistoryEntry

// Append adds entry and keeps only the most recent limit exchanges.
// A non-positive limit means MaxHistoryStore.
func (h HistoryLog) Append(entry HistoryEntry, limit int) HistoryLog {
	if limit <= 0 {
		limit = MaxHistoryStore
	}
	out := make(HistoryLog, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, entry)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Window returns the count exchanges nearest to now. The log is reversed,
// sliced and, unless newestFirst is requested, reversed back, so the kept
// exchanges never depend on the requested order.
func (h HistoryLog) Window(count int, newestFirst bool) HistoryLog {
	if count <= 0 || len(h) == 0 {
		return HistoryLog{}
	}
	reversed := h.reversed()
	if count > len(reversed) {
		count = len(reversed)
	}
	window := reversed[:count]
	if !newestFirst {
		return window.reversed()
	}
	return window
}

// Undo drops the n most recently appended exchanges.
func (h HistoryLog) Undo(n int) HistoryLog {
	if n <= 0 {
		n = DefaultUndoCount
	}
	if n >= len(h) {
		return HistoryLog{}
	}
	out := make(HistoryLog, len(h)-n)
	copy(out, h[:len(h)-n])
	return out
}

// Last returns the most recent exchange.
func (h HistoryLog) Last() (HistoryEntry, bool) {
	if len(h) == 0 {
		return HistoryEntry{}, false
	}
	return h[len(h)-1], true
}

func (h HistoryLog) reversed() HistoryLog {
	out := make(HistoryLog, len(h))
	for i, entry := range h {
		out[len(h)-1-i] = entry
	}
	return out
}

// FormatWindow renders exchanges as tagged dialogue lines, in the order
// given, ready to be prepended to a new prompt.
func FormatWindow(entries []HistoryEntry) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(TagUser)
		b.WriteString(" ")
		b.WriteString(entry.User)
		b.WriteString("\n")
		b.WriteString(TagAssistant)
		b.WriteString(" ")
		b.WriteString(entry.LLM)
		b.WriteString("\n")
	}
	return b.String()
}

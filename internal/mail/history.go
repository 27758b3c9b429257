package mail

// HistoryCapacity is the maximum number of messages kept in a History.
const HistoryCapacity = 50

// History is a bounded, newest-first list of messages. Every operation returns
// a new History and leaves the receiver untouched.
type History struct {
	items []Message
}

// Push prepends m and drops the oldest entries beyond HistoryCapacity.
func (h History) Push(m Message) History {
	n := min(len(h.items)+1, HistoryCapacity)
	items := make([]Message, 0, n)
	items = append(items, m)
	items = append(items, h.items[:n-1]...)
	return History{items: items}
}

// Replace swaps the entry with m's ID for m. It reports false, and returns h
// unchanged, when no such entry exists (for example after it was evicted).
func (h History) Replace(m Message) (History, bool) {
	for i, existing := range h.items {
		if existing.ID != m.ID {
			continue
		}
		items := make([]Message, len(h.items))
		copy(items, h.items)
		items[i] = m
		return History{items: items}, true
	}
	return h, false
}

// Items returns a copy of the entries, newest first.
func (h History) Items() []Message {
	out := make([]Message, len(h.items))
	copy(out, h.items)
	return out
}

// Recent returns up to n newest entries.
func (h History) Recent(n int) []Message {
	n = max(0, min(n, len(h.items)))
	out := make([]Message, n)
	copy(out, h.items[:n])
	return out
}

// Filter returns the entries with the given status, newest first.
func (h History) Filter(status Status) []Message {
	var out []Message
	for _, m := range h.items {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

// Get looks up an entry by ID.
func (h History) Get(id string) (Message, bool) {
	for _, m := range h.items {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h.items)
}

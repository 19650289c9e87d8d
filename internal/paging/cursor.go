// Package paging reveals an already-ranked list a fixed-size batch at a time.
//
// The rankers always return the full list. A Cursor is caller-held state:
// it only remembers how far the caller has read.
package paging

// DefaultBatchSize is the number of titles revealed per "more" action.
const DefaultBatchSize = 5

// Cursor tracks how many items of a ranked list have been revealed.
type Cursor struct {
	Offset    int `json:"offset"`
	BatchSize int `json:"batch_size"`
}

// NewCursor returns a cursor at the start of a list.
// A non-positive batch size falls back to DefaultBatchSize.
func NewCursor(batchSize int) Cursor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return Cursor{BatchSize: batchSize}
}

// Next returns the bounds [start, end) of the next batch in a list of total
// items and advances the cursor. When the list is exhausted start == end.
func (c *Cursor) Next(total int) (start, end int) {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	start = min(c.Offset, total)
	end = min(start+c.BatchSize, total)
	c.Offset = end
	return start, end
}

// HasMore reports whether any items remain unrevealed.
func (c Cursor) HasMore(total int) bool {
	return c.Offset < total
}

// Remaining returns the number of unrevealed items.
func (c Cursor) Remaining(total int) int {
	return max(total-c.Offset, 0)
}

// Reset rewinds the cursor to the start of the list.
func (c *Cursor) Reset() {
	c.Offset = 0
}

// Window returns items[start:end] with bounds clamped to the slice.
func Window[T any](items []T, start, end int) []T {
	start = max(0, min(start, len(items)))
	end = max(start, min(end, len(items)))
	return items[start:end]
}

// Package history keeps the message log of a single conversation in a fixed
// capacity ring buffer. Old messages fall off once the cap is reached, which
// bounds client memory for long-lived sessions.
//
// History is not goroutine safe. The reconciler is the only writer and all
// reads happen on its goroutine, so no locking is needed here.
package history

import "palaver/internal/models"

type Seq int64

const DefaultLimit = 1000

type History struct {
	records   []models.Message
	firstSeq  Seq
	lastSeq   Seq
	lastIndex int
	limit     int
}

func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		firstSeq:  -1,
		lastSeq:   -1,
		lastIndex: -1,
		limit:     limit,
	}
}

// Append adds a message and returns the sequence number it was assigned.
// Sequence numbers start at 0 and never repeat within a History.
func (h *History) Append(msg models.Message) Seq {
	h.lastSeq++

	switch {
	case len(h.records) < h.limit:
		if h.firstSeq == -1 {
			h.firstSeq = h.lastSeq
		}
		h.records = append(h.records, msg)
		h.lastIndex++
	default:
		h.firstSeq++
		i := (h.lastIndex + 1) % h.limit
		h.records[i] = msg
		h.lastIndex = i
	}

	return h.lastSeq
}

func (h *History) Len() int {
	if h.firstSeq == -1 {
		return 0
	}
	return int(h.lastSeq - h.firstSeq + 1)
}

// All returns the retained messages oldest first. The returned slice is a
// copy and safe to hand to readers.
func (h *History) All() []models.Message {
	return h.Range(h.firstSeq, h.lastSeq+1)
}

// Last returns up to count newest messages, oldest first.
func (h *History) Last(count int) []models.Message {
	if h.lastSeq == -1 || count <= 0 {
		return []models.Message{}
	}

	if total := h.Len(); count > total {
		count = total
	}

	return h.Range(h.lastSeq-Seq(count)+1, h.lastSeq+1)
}

// Range returns messages with sequence numbers in [from, to), clamped to
// what the ring still retains.
func (h *History) Range(from, to Seq) []models.Message {
	if h.firstSeq == -1 {
		return []models.Message{}
	}

	if from < h.firstSeq {
		from = h.firstSeq
	}
	if to > h.lastSeq+1 {
		to = h.lastSeq + 1
	}
	if from >= to {
		return []models.Message{}
	}

	count := int(to - from)
	result := make([]models.Message, count)

	// Head index (oldest record) once the ring has wrapped.
	head := 0
	if len(h.records) == h.limit {
		head = (h.lastIndex + 1) % h.limit
	}

	offset := int(from - h.firstSeq)
	startIdx := (head + offset) % len(h.records)

	if startIdx+count <= len(h.records) {
		copy(result, h.records[startIdx:startIdx+count])
	} else {
		n1 := len(h.records) - startIdx
		copy(result, h.records[startIdx:])
		copy(result[n1:], h.records[:count-n1])
	}

	return result
}

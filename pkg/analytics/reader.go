package analytics

import (
	"context"

	"product-advisor-be/internal/entity"

	"github.com/google/uuid"
)

const defaultPageSize = 64

// Reader walks one session's events in emission order, paging through the
// store lazily. Duplicate rows (at-least-once delivery) are collapsed by
// the monotonic per-session sequence number. Create a fresh Reader to
// restart from the beginning.
type Reader struct {
	store     Store
	sessionID uuid.UUID
	pageSize  int

	buf     []*entity.AdvisorEvent
	bufPos  int
	lastSeq int64
	done    bool
	err     error
}

func NewReader(store Store, sessionID uuid.UUID) *Reader {
	return &Reader{
		store:     store,
		sessionID: sessionID,
		pageSize:  defaultPageSize,
		lastSeq:   0,
	}
}

// Next returns the next event, or false at the end of the durable data.
// Check Err after a false return.
func (r *Reader) Next(ctx context.Context) (*entity.AdvisorEvent, bool) {
	for {
		if r.err != nil {
			return nil, false
		}
		if r.bufPos < len(r.buf) {
			ev := r.buf[r.bufPos]
			r.bufPos++
			if ev.Seq <= r.lastSeq {
				continue // duplicate delivery, skip
			}
			r.lastSeq = ev.Seq
			return ev, true
		}
		if r.done {
			return nil, false
		}
		page, err := r.store.ReadPage(ctx, r.sessionID, r.lastSeq, r.pageSize)
		if err != nil {
			r.err = err
			return nil, false
		}
		if len(page) < r.pageSize {
			r.done = true
		}
		if len(page) == 0 {
			return nil, false
		}
		r.buf = page
		r.bufPos = 0
	}
}

// All drains the reader into a slice.
func (r *Reader) All(ctx context.Context) ([]*entity.AdvisorEvent, error) {
	var out []*entity.AdvisorEvent
	for {
		ev, ok := r.Next(ctx)
		if !ok {
			break
		}
		out = append(out, ev)
	}
	return out, r.Err()
}

func (r *Reader) Err() error {
	return r.err
}

package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bySessionIDSpec struct {
	sessionID uuid.UUID
}

func (s *bySessionIDSpec) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.sessionID)
}

// BySessionID filters advisor events to a single session.
func BySessionID(sessionID uuid.UUID) Specification {
	return &bySessionIDSpec{sessionID: sessionID}
}

type afterSeqSpec struct {
	seq int64
}

func (s *afterSeqSpec) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("seq > ?", s.seq)
}

// AfterSeq keeps only events past the given sequence number.
func AfterSeq(seq int64) Specification {
	return &afterSeqSpec{seq: seq}
}

type byEventTypeSpec struct {
	eventType string
}

func (s *byEventTypeSpec) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.eventType)
}

func ByEventType(eventType string) Specification {
	return &byEventTypeSpec{eventType: eventType}
}

type orderBySeqSpec struct{}

func (s *orderBySeqSpec) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

// OrderBySeq sorts events in emission order.
func OrderBySeq() Specification {
	return &orderBySeqSpec{}
}

type limitSpec struct {
	limit int
}

func (s *limitSpec) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.limit)
}

func Limit(limit int) Specification {
	return &limitSpec{limit: limit}
}

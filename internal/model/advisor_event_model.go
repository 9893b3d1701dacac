package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AdvisorEvent struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_advisor_events_session_seq,priority:1"`
	Seq       int64          `gorm:"not null;uniqueIndex:idx_advisor_events_session_seq,priority:2"`
	EventType string         `gorm:"type:varchar(64);not null;index"`
	Data      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (AdvisorEvent) TableName() string {
	return "advisor_events"
}

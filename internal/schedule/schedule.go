// Package schedule looks up a user's appointment in the relational store.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Schedule struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);index;not null"`
	Name      string    `gorm:"type:varchar(128);not null"`
	Event     string    `gorm:"type:varchar(256);not null"`
	EventDate time.Time `gorm:"column:event_date;not null"`
}

func (Schedule) TableName() string { return "schedules" }

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

const notFoundReply = "No schedule found for this ID."

// Describe returns a natural-language sentence for the user's next stored
// event, or a not-found message. Only datastore failures are errors.
func (r *Repo) Describe(ctx context.Context, userID string) (string, error) {
	var s Schedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundReply, nil
		}
		return "", err
	}
	return fmt.Sprintf("Hi %s, your %s is on %s", s.Name, s.Event, s.EventDate.Format("2006-01-02")), nil
}

// Ping verifies datastore connectivity for health reporting.
func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

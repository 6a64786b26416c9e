// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserRegisteredQueue is the durable queue carrying registration events.
const UserRegisteredQueue = "user.registered"

// UserRegisteredEvent is published after a user row is committed. It
// carries enough for downstream consumers to audit or notify without
// querying the primary database. The password hash is never included and
// the phone is masked.
type UserRegisteredEvent struct {
	EventID      string `json:"event_id"`
	UserID       uint64 `json:"user_id"`
	Phone        string `json:"phone"`
	FullName     string `json:"full_name"`
	UserCategory string `json:"user_category"`
	SpecificRole string `json:"specific_role"`
	Region       string `json:"region"`
	SubRegion    string `json:"sub_region"`
	School       string `json:"school"`
	IsNewSchool  bool   `json:"is_new_school"`
	RegisteredAt string `json:"registered_at"`
}

// NewUserRegisteredEvent stamps a fresh event ID and an RFC 3339 UTC time.
func NewUserRegisteredEvent(userID uint64, phone, fullName, category, role, region, subRegion, school string,
	isNewSchool bool, at time.Time) UserRegisteredEvent {
	return UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       userID,
		Phone:        MaskPhone(phone),
		FullName:     fullName,
		UserCategory: category,
		SpecificRole: role,
		Region:       region,
		SubRegion:    subRegion,
		School:       school,
		IsNewSchool:  isNewSchool,
		RegisteredAt: at.UTC().Format(time.RFC3339),
	}
}

// MaskPhone keeps the first two and last two digits: 22123456 -> 22****56.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := []byte(phone)
	for i := 2; i < len(masked)-2; i++ {
		masked[i] = '*'
	}
	return string(masked)
}

// Line renders the event as a single human-friendly audit log line.
func (ev UserRegisteredEvent) Line() string {
	return fmt.Sprintf("[%s] User registered | event_id=%s | user_id=%d | phone=%s | category=%s | role=%s | region=%q | sub_region=%q | school=%q | new_school=%t\n",
		ev.RegisteredAt, ev.EventID, ev.UserID, ev.Phone, ev.UserCategory, ev.SpecificRole,
		ev.Region, ev.SubRegion, ev.School, ev.IsNewSchool)
}

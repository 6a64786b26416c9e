package model

import "time"

// School represents a row in the `schools` table. Names are unique; a
// school with IsActive false is hidden from lookups but keeps its row.
type School struct {
	ID        uint64    // schools.id
	Name      string    // schools.name
	Region    string    // schools.region
	SubRegion string    // schools.sub_region
	IsActive  bool      // schools.is_active
	CreatedAt time.Time // schools.created_at
}

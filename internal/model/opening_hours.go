package model

import "github.com/google/uuid"

// OpeningHours is one weekday entry of a facility's schedule, keyed by
// ISO weekday 1 (Monday) to 7 (Sunday).  A facility owns at most one
// entry per weekday.  When IsClosed is true the open/close times are
// meaningless; otherwise they hold "HH:MM:SS" strings.
type OpeningHours struct {
	FacilityID uuid.UUID // opening_hours.facility_id
	DayOfWeek  int       // opening_hours.day_of_week (1..7)
	IsClosed   bool      // opening_hours.is_closed
	OpenTime   *string   // opening_hours.open_time (nullable)
	CloseTime  *string   // opening_hours.close_time (nullable)
	Note       *string   // opening_hours.note (nullable)
}

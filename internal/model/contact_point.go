package model

import "github.com/google/uuid"

// ContactPoint is a way to reach a facility (phone, email, website...).
// Primary contacts sort before secondary ones everywhere they are
// displayed.
type ContactPoint struct {
	ID         uuid.UUID // contact_point.id
	FacilityID uuid.UUID // contact_point.facility_id
	Type       string    // contact_point.type
	Value      string    // contact_point.value
	Label      *string   // contact_point.label (nullable)
	IsPrimary  bool      // contact_point.is_primary
}

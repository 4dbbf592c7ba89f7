package model

import "github.com/google/uuid"

// Space is a bookable unit inside a facility, typed by a SpaceType.
// A space can carry its own media gallery.
type Space struct {
	ID             uuid.UUID // space.id
	FacilityID     uuid.UUID // space.facility_id
	SpaceTypeID    uuid.UUID // space.space_type_id
	Name           string    // space.name
	Description    *string   // space.description (nullable)
	CapacityPeople *int      // space.capacity_people (nullable)
	SizeM2         *float64  // space.size_m2 (nullable)
}

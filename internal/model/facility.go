package model

import (
	"time"

	"github.com/google/uuid"
)

// Facility lifecycle statuses.  Only ACTIVE facilities are visible on
// the public API; DRAFT and ARCHIVED rows exist solely for admins.
const (
	FacilityStatusActive   = "ACTIVE"
	FacilityStatusDraft    = "DRAFT"
	FacilityStatusArchived = "ARCHIVED"
)

// Facility is the central entity of the directory: a bookable or
// visitable venue inside one city.  It optionally references an
// address and a cover media item and owns all of its attachments
// (capabilities, features, equipment, prices, opening hours, contacts,
// media and spaces).  This struct corresponds to a row in the
// `facility` table.
//
// Fields:
//  ID           – primary key identifier.
//  CityID       – city the facility belongs to.
//  Name         – display name.
//  Description  – optional free-text description.
//  AddressID    – optional reference into the address table.
//  CoverMediaID – optional reference to the cover media item.
//  Status       – lifecycle status (see constants above).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Facility struct {
	ID           uuid.UUID  // facility.id
	CityID       uuid.UUID  // facility.city_id
	Name         string     // facility.name
	Description  *string    // facility.description (nullable)
	AddressID    *uuid.UUID // facility.address_id (nullable)
	CoverMediaID *uuid.UUID // facility.cover_media_id (nullable)
	Status       string     // facility.status
	CreatedAt    time.Time  // facility.created_at
	UpdatedAt    time.Time  // facility.updated_at
}

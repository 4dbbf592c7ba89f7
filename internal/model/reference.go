package model

import "github.com/google/uuid"

// This file holds the reference (master data) entities facilities link
// against.  All of them are managed exclusively through the admin API
// and are read-only for the public directory.

// CapabilityType is a categorized service or amenity a facility can
// offer, e.g. code "WIFI" with label "Wireless internet".
type CapabilityType struct {
	ID    uuid.UUID // capability_type.id
	Code  string    // capability_type.code
	Label string    // capability_type.label
}

// Feature value types accepted by the admin API.
const (
	FeatureValueBool   = "BOOL"
	FeatureValueText   = "TEXT"
	FeatureValueNumber = "NUMBER"
)

// Feature is a typed attribute attachable to a facility.  ValueType
// declares which of the three value columns an attachment is expected
// to populate.
type Feature struct {
	ID        uuid.UUID // feature.id
	Code      string    // feature.code
	Label     string    // feature.label
	ValueType string    // feature.value_type
}

// EquipmentType describes a piece of equipment facilities can own,
// grouped into categories by CategoryCode.
type EquipmentType struct {
	ID           uuid.UUID  // equipment_type.id
	Name         string     // equipment_type.name
	CategoryCode string     // equipment_type.category_code
	Description  *string    // equipment_type.description (nullable)
	CoverMediaID *uuid.UUID // equipment_type.cover_media_id (nullable)
}

// SpaceType classifies spaces inside a facility, e.g. MEETING_ROOM.
type SpaceType struct {
	ID    uuid.UUID // space_type.id
	Code  string    // space_type.code
	Label string    // space_type.label
}

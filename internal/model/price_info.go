package model

import "github.com/google/uuid"

// PriceKindContact is the sentinel price kind meaning "contact the
// facility for pricing".  Any other kind (DAY, HOUR, ...) denotes a
// numeric range.
const PriceKindContact = "CONTACT"

// PriceInfo is a price entry owned by a facility, optionally scoped to
// one capability type or one space.  AmountFrom/AmountTo are both
// optional; CONTACT entries usually carry neither.
type PriceInfo struct {
	ID               uuid.UUID  // price_info.id
	FacilityID       uuid.UUID  // price_info.facility_id
	CapabilityTypeID *uuid.UUID // price_info.capability_type_id (nullable)
	SpaceID          *uuid.UUID // price_info.space_id (nullable)
	Kind             string     // price_info.kind
	AmountFrom       *float64   // price_info.amount_from (nullable)
	AmountTo         *float64   // price_info.amount_to (nullable)
	Currency         string     // price_info.currency (3-letter code)
	Note             *string    // price_info.note (nullable)
}

package model

import "github.com/google/uuid"

// Address is a postal address inside a city with an optional lat/lng
// pair.  The admin layer enforces that an address attached to a
// facility lives in the same city as the facility itself.
type Address struct {
	ID     uuid.UUID // address.id
	CityID uuid.UUID // address.city_id
	Label  string    // address.label
	Lat    *float64  // address.lat (nullable)
	Lng    *float64  // address.lng (nullable)
}

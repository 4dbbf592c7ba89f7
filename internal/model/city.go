package model

import "github.com/google/uuid"

// City represents a city the directory is scoped to.  Every facility
// belongs to exactly one city.  This struct corresponds to a row in
// the `city` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the city.
//  CountryCode – ISO 3166-1 alpha-2 country code.
//  CenterLat   – optional latitude of the city center.
//  CenterLng   – optional longitude of the city center.
type City struct {
	ID          uuid.UUID // city.id
	Name        string    // city.name
	CountryCode string    // city.country_code
	CenterLat   *float64  // city.center_lat (nullable)
	CenterLng   *float64  // city.center_lng (nullable)
}

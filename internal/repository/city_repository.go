package repository

import (
	"context"
	"database/sql"

	"facilities-directory/internal/model"
)

// CityRepo serves the public city listing. Admin-side city management
// lives in AdminCityRepo.
type CityRepo struct {
	db *sql.DB
}

func NewCityRepo(db *sql.DB) *CityRepo {
	return &CityRepo{db: db}
}

// ListAll returns every city ordered by name. The directory front page
// uses this to offer the city picker, so no pagination is applied.
func (r *CityRepo) ListAll(ctx context.Context) ([]model.City, error) {
	const q = `select id, name, country_code, center_lat, center_lng
		from city
		order by name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.City
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryCode, &c.CenterLat, &c.CenterLng); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

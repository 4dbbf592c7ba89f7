package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
)

// AdminCityRepo manages city master data.
type AdminCityRepo struct {
	db *sql.DB
}

func NewAdminCityRepo(db *sql.DB) *AdminCityRepo {
	return &AdminCityRepo{db: db}
}

func (r *AdminCityRepo) List(ctx context.Context) ([]model.City, error) {
	const q = `select id, name, country_code, center_lat, center_lng from city order by name`
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

func (r *AdminCityRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.City, error) {
	const q = `select id, name, country_code, center_lat, center_lng from city where id = ?`
	var c model.City
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.CountryCode, &c.CenterLat, &c.CenterLng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *AdminCityRepo) Insert(ctx context.Context, c *model.City) error {
	const q = `insert into city (id, name, country_code, center_lat, center_lng) values (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.CountryCode, c.CenterLat, c.CenterLng)
	return err
}

func (r *AdminCityRepo) Update(ctx context.Context, c *model.City) error {
	const q = `update city set name = ?, country_code = ?, center_lat = ?, center_lng = ? where id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.CountryCode, c.CenterLat, c.CenterLng, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a city unless facilities or addresses still live in
// it, in which case ErrReferenced is returned.
func (r *AdminCityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var refs int
	const qRefs = `select (select count(*) from facility where city_id = ?) + (select count(*) from address where city_id = ?)`
	if err := r.db.QueryRowContext(ctx, qRefs, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrReferenced
	}
	res, err := r.db.ExecContext(ctx, `delete from city where id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

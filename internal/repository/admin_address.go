package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
)

// AdminAddressRepo manages address rows. Besides CRUD it backs the
// "address city must match facility city" check in the facility
// handlers.
type AdminAddressRepo struct {
	db *sql.DB
}

func NewAdminAddressRepo(db *sql.DB) *AdminAddressRepo {
	return &AdminAddressRepo{db: db}
}

func (r *AdminAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	const q = `select id, city_id, label, lat, lng from address where id = ?`
	var a model.Address
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.CityID, &a.Label, &a.Lat, &a.Lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdminAddressRepo) Insert(ctx context.Context, a *model.Address) error {
	const q = `insert into address (id, city_id, label, lat, lng) values (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, a.ID, a.CityID, a.Label, a.Lat, a.Lng)
	return err
}

func (r *AdminAddressRepo) Update(ctx context.Context, a *model.Address) error {
	const q = `update address set city_id = ?, label = ?, lat = ?, lng = ? where id = ?`
	res, err := r.db.ExecContext(ctx, q, a.CityID, a.Label, a.Lat, a.Lng, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an address unless a facility still points at it.
func (r *AdminAddressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var refs int
	if err := r.db.QueryRowContext(ctx, `select count(*) from facility where address_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrReferenced
	}
	res, err := r.db.ExecContext(ctx, `delete from address where id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

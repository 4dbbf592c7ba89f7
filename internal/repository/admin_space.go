package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
)

// AdminSpaceRepo manages spaces and their media links.
type AdminSpaceRepo struct {
	db *sql.DB
}

func NewAdminSpaceRepo(db *sql.DB) *AdminSpaceRepo {
	return &AdminSpaceRepo{db: db}
}

func (r *AdminSpaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Space, error) {
	const q = `select id, facility_id, space_type_id, name, description, capacity_people, size_m2
		from space where id = ?`
	var s model.Space
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.FacilityID, &s.SpaceTypeID, &s.Name, &s.Description, &s.CapacityPeople, &s.SizeM2,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *AdminSpaceRepo) Insert(ctx context.Context, s *model.Space) error {
	const q = `insert into space (id, facility_id, space_type_id, name, description, capacity_people, size_m2)
		values (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.FacilityID, s.SpaceTypeID, s.Name, s.Description, s.CapacityPeople, s.SizeM2)
	return err
}

func (r *AdminSpaceRepo) Update(ctx context.Context, s *model.Space) error {
	const q = `update space set space_type_id = ?, name = ?, description = ?, capacity_people = ?, size_m2 = ?
		where id = ?`
	res, err := r.db.ExecContext(ctx, q, s.SpaceTypeID, s.Name, s.Description, s.CapacityPeople, s.SizeM2, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a space together with its media links and any price
// entries scoped to it.
func (r *AdminSpaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `delete from space_media where space_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `delete from price_info where space_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `delete from space where id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// ReplaceMedia swaps the space's media links in one transaction.
func (r *AdminSpaceRepo) ReplaceMedia(ctx context.Context, spaceID uuid.UUID, media []MediaLinkInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `delete from space_media where space_id = ?`, spaceID); err != nil {
		return err
	}
	const q = `insert into space_media (space_id, media_id, sort_order, caption) values (?, ?, ?, ?)`
	for _, m := range media {
		if _, err = tx.ExecContext(ctx, q, spaceID, m.MediaID, m.SortOrder, m.Caption); err != nil {
			return err
		}
	}
	return nil
}

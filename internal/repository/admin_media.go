package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
)

// AdminMediaRepo manages media metadata rows. The binaries themselves
// live behind the URLs and are not this service's concern.
type AdminMediaRepo struct {
	db *sql.DB
}

func NewAdminMediaRepo(db *sql.DB) *AdminMediaRepo {
	return &AdminMediaRepo{db: db}
}

func (r *AdminMediaRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	const q = `select id, url, kind, created_at from media where id = ?`
	var m model.Media
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.URL, &m.Kind, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *AdminMediaRepo) Insert(ctx context.Context, m *model.Media) error {
	const q = `insert into media (id, url, kind) values (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, m.ID, m.URL, m.Kind); err != nil {
		return err
	}
	// Re-read so the caller gets the DB-assigned created_at.
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

func (r *AdminMediaRepo) Update(ctx context.Context, m *model.Media) error {
	const q = `update media set url = ?, kind = ? where id = ?`
	res, err := r.db.ExecContext(ctx, q, m.URL, m.Kind, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a media row unless it is still linked as a cover image
// or gallery entry anywhere.
func (r *AdminMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var refs int
	const qRefs = `select
		(select count(*) from facility where cover_media_id = ?) +
		(select count(*) from facility_media where media_id = ?) +
		(select count(*) from space_media where media_id = ?)`
	if err := r.db.QueryRowContext(ctx, qRefs, id, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrReferenced
	}
	res, err := r.db.ExecContext(ctx, `delete from media where id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

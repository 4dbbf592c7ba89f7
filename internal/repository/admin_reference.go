package repository

// Admin repositories for the four reference tables facilities link
// against. All follow the same shape: list/get/insert/update plus a
// guarded delete that refuses (ErrReferenced) while attachments still
// point at the row.

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
)

// AdminCapabilityTypeRepo manages capability_type rows.
type AdminCapabilityTypeRepo struct {
	db *sql.DB
}

func NewAdminCapabilityTypeRepo(db *sql.DB) *AdminCapabilityTypeRepo {
	return &AdminCapabilityTypeRepo{db: db}
}

func (r *AdminCapabilityTypeRepo) List(ctx context.Context) ([]model.CapabilityType, error) {
	const q = `select id, code, label from capability_type order by code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CapabilityType
	for rows.Next() {
		var ct model.CapabilityType
		if err := rows.Scan(&ct.ID, &ct.Code, &ct.Label); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *AdminCapabilityTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.CapabilityType, error) {
	const q = `select id, code, label from capability_type where id = ?`
	var ct model.CapabilityType
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&ct.ID, &ct.Code, &ct.Label); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ct, nil
}

func (r *AdminCapabilityTypeRepo) Insert(ctx context.Context, ct *model.CapabilityType) error {
	_, err := r.db.ExecContext(ctx, `insert into capability_type (id, code, label) values (?, ?, ?)`, ct.ID, ct.Code, ct.Label)
	return err
}

func (r *AdminCapabilityTypeRepo) Update(ctx context.Context, ct *model.CapabilityType) error {
	res, err := r.db.ExecContext(ctx, `update capability_type set code = ?, label = ? where id = ?`, ct.Code, ct.Label, ct.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminCapabilityTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const qRefs = `select (select count(*) from facility_capability where capability_type_id = ?) +
		(select count(*) from price_info where capability_type_id = ?)`
	return guardedDelete(ctx, r.db, qRefs, []any{id, id}, `delete from capability_type where id = ?`, id)
}

// AdminFeatureRepo manages feature rows.
type AdminFeatureRepo struct {
	db *sql.DB
}

func NewAdminFeatureRepo(db *sql.DB) *AdminFeatureRepo {
	return &AdminFeatureRepo{db: db}
}

func (r *AdminFeatureRepo) List(ctx context.Context) ([]model.Feature, error) {
	const q = `select id, code, label, value_type from feature order by code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Feature
	for rows.Next() {
		var f model.Feature
		if err := rows.Scan(&f.ID, &f.Code, &f.Label, &f.ValueType); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *AdminFeatureRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Feature, error) {
	const q = `select id, code, label, value_type from feature where id = ?`
	var f model.Feature
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.Code, &f.Label, &f.ValueType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *AdminFeatureRepo) Insert(ctx context.Context, f *model.Feature) error {
	_, err := r.db.ExecContext(ctx, `insert into feature (id, code, label, value_type) values (?, ?, ?, ?)`, f.ID, f.Code, f.Label, f.ValueType)
	return err
}

func (r *AdminFeatureRepo) Update(ctx context.Context, f *model.Feature) error {
	res, err := r.db.ExecContext(ctx, `update feature set code = ?, label = ?, value_type = ? where id = ?`, f.Code, f.Label, f.ValueType, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminFeatureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const qRefs = `select count(*) from facility_feature where feature_id = ?`
	return guardedDelete(ctx, r.db, qRefs, []any{id}, `delete from feature where id = ?`, id)
}

// AdminEquipmentTypeRepo manages equipment_type rows.
type AdminEquipmentTypeRepo struct {
	db *sql.DB
}

func NewAdminEquipmentTypeRepo(db *sql.DB) *AdminEquipmentTypeRepo {
	return &AdminEquipmentTypeRepo{db: db}
}

func (r *AdminEquipmentTypeRepo) List(ctx context.Context) ([]model.EquipmentType, error) {
	const q = `select id, name, category_code, description, cover_media_id from equipment_type order by category_code, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.EquipmentType
	for rows.Next() {
		var et model.EquipmentType
		if err := rows.Scan(&et.ID, &et.Name, &et.CategoryCode, &et.Description, &et.CoverMediaID); err != nil {
			return nil, err
		}
		out = append(out, et)
	}
	return out, rows.Err()
}

func (r *AdminEquipmentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.EquipmentType, error) {
	const q = `select id, name, category_code, description, cover_media_id from equipment_type where id = ?`
	var et model.EquipmentType
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&et.ID, &et.Name, &et.CategoryCode, &et.Description, &et.CoverMediaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &et, nil
}

func (r *AdminEquipmentTypeRepo) Insert(ctx context.Context, et *model.EquipmentType) error {
	const q = `insert into equipment_type (id, name, category_code, description, cover_media_id) values (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, et.ID, et.Name, et.CategoryCode, et.Description, et.CoverMediaID)
	return err
}

func (r *AdminEquipmentTypeRepo) Update(ctx context.Context, et *model.EquipmentType) error {
	const q = `update equipment_type set name = ?, category_code = ?, description = ?, cover_media_id = ? where id = ?`
	res, err := r.db.ExecContext(ctx, q, et.Name, et.CategoryCode, et.Description, et.CoverMediaID, et.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminEquipmentTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const qRefs = `select count(*) from facility_equipment where equipment_type_id = ?`
	return guardedDelete(ctx, r.db, qRefs, []any{id}, `delete from equipment_type where id = ?`, id)
}

// AdminSpaceTypeRepo manages space_type rows.
type AdminSpaceTypeRepo struct {
	db *sql.DB
}

func NewAdminSpaceTypeRepo(db *sql.DB) *AdminSpaceTypeRepo {
	return &AdminSpaceTypeRepo{db: db}
}

func (r *AdminSpaceTypeRepo) List(ctx context.Context) ([]model.SpaceType, error) {
	const q = `select id, code, label from space_type order by code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SpaceType
	for rows.Next() {
		var st model.SpaceType
		if err := rows.Scan(&st.ID, &st.Code, &st.Label); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *AdminSpaceTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.SpaceType, error) {
	const q = `select id, code, label from space_type where id = ?`
	var st model.SpaceType
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.Code, &st.Label); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *AdminSpaceTypeRepo) Insert(ctx context.Context, st *model.SpaceType) error {
	_, err := r.db.ExecContext(ctx, `insert into space_type (id, code, label) values (?, ?, ?)`, st.ID, st.Code, st.Label)
	return err
}

func (r *AdminSpaceTypeRepo) Update(ctx context.Context, st *model.SpaceType) error {
	res, err := r.db.ExecContext(ctx, `update space_type set code = ?, label = ? where id = ?`, st.Code, st.Label, st.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminSpaceTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const qRefs = `select count(*) from space where space_type_id = ?`
	return guardedDelete(ctx, r.db, qRefs, []any{id}, `delete from space_type where id = ?`, id)
}

// guardedDelete counts live references with qRefs and only deletes when
// the count is zero.
func guardedDelete(ctx context.Context, db *sql.DB, qRefs string, refArgs []any, qDelete string, id uuid.UUID) error {
	var refs int
	if err := db.QueryRowContext(ctx, qRefs, refArgs...).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrReferenced
	}
	res, err := db.ExecContext(ctx, qDelete, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

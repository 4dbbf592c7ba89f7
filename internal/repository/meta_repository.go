package repository

import (
	"context"
	"database/sql"
)

// MetaRepo loads the reference lists the frontend builds its filter UI
// from: capability types, features, equipment categories and space
// types. All lists are code-ordered.
type MetaRepo struct {
	db *sql.DB
}

func NewMetaRepo(db *sql.DB) *MetaRepo {
	return &MetaRepo{db: db}
}

// MetaItem is a plain (code, label) pair.
type MetaItem struct {
	Code  string
	Label string
}

// FeatureMetaItem additionally carries the declared value type so the
// UI knows whether to render a checkbox, number or text input.
type FeatureMetaItem struct {
	Code      string
	Label     string
	ValueType string
}

func (r *MetaRepo) FetchCapabilities(ctx context.Context) ([]MetaItem, error) {
	return r.queryMetaItems(ctx, `select code, label from capability_type order by code`)
}

func (r *MetaRepo) FetchFeatures(ctx context.Context) ([]FeatureMetaItem, error) {
	const q = `select code, label, value_type from feature order by code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FeatureMetaItem
	for rows.Next() {
		var f FeatureMetaItem
		if err := rows.Scan(&f.Code, &f.Label, &f.ValueType); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FetchEquipmentCategories derives the category list from the equipment
// types themselves; categories have no table of their own. Labels are
// prettified from the code ("AV_TECH" -> "Av tech").
func (r *MetaRepo) FetchEquipmentCategories(ctx context.Context) ([]MetaItem, error) {
	const q = `select distinct category_code as code,
			concat(upper(left(category_code, 1)), lower(replace(substring(category_code, 2), '_', ' '))) as label
		from equipment_type
		order by code`
	return r.queryMetaItems(ctx, q)
}

func (r *MetaRepo) FetchSpaceTypes(ctx context.Context) ([]MetaItem, error) {
	return r.queryMetaItems(ctx, `select code, label from space_type order by code`)
}

func (r *MetaRepo) queryMetaItems(ctx context.Context, q string) ([]MetaItem, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MetaItem
	for rows.Next() {
		var m MetaItem
		if err := rows.Scan(&m.Code, &m.Label); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Package repository contains data access logic separated from HTTP
// handlers. This file implements the read side of the facility store:
// the batched attribute fetches the card assembler joins in memory, and
// the per-facility fetches backing the detail view. Every batch method
// takes the whole id set and issues a single query, never a query per
// facility.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// FacilityRepo encapsulates all read-only queries of the public
// directory. It depends on a sql.DB connection configured elsewhere.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo constructs a FacilityRepo with the provided DB handle.
func NewFacilityRepo(db *sql.DB) *FacilityRepo {
	return &FacilityRepo{db: db}
}

// FacilityBaseRow is the joined facility/city/address/cover projection
// both cards and details start from.
type FacilityBaseRow struct {
	ID            uuid.UUID
	Name          string
	Description   *string
	CityID        uuid.UUID
	CityName      string
	AddressLabel  *string
	Lat           *float64
	Lng           *float64
	CoverImageURL *string
}

// CapabilityRow is one active capability attachment in card form.
type CapabilityRow struct {
	FacilityID uuid.UUID
	Code       string
	Label      string
}

// FeatureCodeRow links a facility to one attached feature code.
type FeatureCodeRow struct {
	FacilityID uuid.UUID
	Code       string
}

// EquipmentCategoryRow links a facility to one equipment category code.
type EquipmentCategoryRow struct {
	FacilityID   uuid.UUID
	CategoryCode string
}

// PriceInfoRow is one price entry as the price-hint logic consumes it.
type PriceInfoRow struct {
	FacilityID uuid.UUID
	Kind       string
	AmountFrom *float64
	AmountTo   *float64
	Currency   string
	Note       *string
}

// ContactRow, OpeningHoursRow, MediaRow, CapabilityDetailsRow, SpaceRow,
// SpaceMediaRow, EquipmentRow and FeatureRow back the detail projection.
type ContactRow struct {
	Type      string
	Value     string
	Label     *string
	IsPrimary bool
}

type OpeningHoursRow struct {
	DayOfWeek int
	IsClosed  bool
	OpenTime  *string
	CloseTime *string
	Note      *string
}

type MediaRow struct {
	URL       string
	Caption   *string
	SortOrder int
}

type CapabilityDetailsRow struct {
	Code    string
	Label   string
	Summary *string
	Details json.RawMessage
}

type SpaceRow struct {
	ID             uuid.UUID
	Name           string
	TypeCode       string
	CapacityPeople *int
	SizeM2         *float64
	Description    *string
}

type SpaceMediaRow struct {
	SpaceID   uuid.UUID
	URL       string
	Caption   *string
	SortOrder int
}

type EquipmentRow struct {
	CategoryCode string
	Name         string
	Quantity     *int
	Mode         string
	Note         *string
}

type FeatureRow struct {
	Code        string
	Label       string
	ValueBool   *bool
	ValueText   *string
	ValueNumber *float64
}

const facilityBaseSelect = `select f.id,
		f.name,
		f.description,
		c.id   as city_id,
		c.name as city_name,
		a.label as address_label,
		a.lat,
		a.lng,
		m.url as cover_image_url
	from facility f
	join city c on c.id = f.city_id
	left join address a on a.id = f.address_id
	left join media m on m.id = f.cover_media_id`

// FetchFacilitiesBase loads the base projection for an id set, keyed by
// facility id so callers can re-join in the planner's order.
func (r *FacilityRepo) FetchFacilitiesBase(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]FacilityBaseRow, error) {
	out := make(map[uuid.UUID]FacilityBaseRow, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := facilityBaseSelect + `
	where f.id in (` + inPlaceholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b FacilityBaseRow
		if err := scanFacilityBase(rows, &b); err != nil {
			return nil, err
		}
		out[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchFacilityBase loads the base projection of a single ACTIVE
// facility. It returns ErrNotFound when the id is unknown or the
// facility is not ACTIVE, which the public API surfaces as a 404.
func (r *FacilityRepo) FetchFacilityBase(ctx context.Context, id uuid.UUID) (*FacilityBaseRow, error) {
	q := facilityBaseSelect + `
	where f.id = ? and f.status = 'ACTIVE'`
	var b FacilityBaseRow
	if err := scanFacilityBase(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FetchCapabilities returns the active capability attachments of an id
// set as (facility, code, label) rows ordered by code. Inactive
// attachments are invisible to the public API.
func (r *FacilityRepo) FetchCapabilities(ctx context.Context, ids []uuid.UUID) ([]CapabilityRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `select fc.facility_id, ct.code, ct.label
		from facility_capability fc
		join capability_type ct on ct.id = fc.capability_type_id
		where fc.facility_id in (` + inPlaceholders(len(ids)) + `)
		  and fc.is_active = 1
		order by ct.code`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CapabilityRow
	for rows.Next() {
		var cr CapabilityRow
		if err := rows.Scan(&cr.FacilityID, &cr.Code, &cr.Label); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// FetchFeatureCodes returns all attached feature codes per facility.
func (r *FacilityRepo) FetchFeatureCodes(ctx context.Context, ids []uuid.UUID) ([]FeatureCodeRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `select ff.facility_id, fe.code
		from facility_feature ff
		join feature fe on fe.id = ff.feature_id
		where ff.facility_id in (` + inPlaceholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FeatureCodeRow
	for rows.Next() {
		var fr FeatureCodeRow
		if err := rows.Scan(&fr.FacilityID, &fr.Code); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// FetchEquipmentCategories returns the equipment category codes attached
// to each facility of the id set.
func (r *FacilityRepo) FetchEquipmentCategories(ctx context.Context, ids []uuid.UUID) ([]EquipmentCategoryRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `select feq.facility_id, et.category_code
		from facility_equipment feq
		join equipment_type et on et.id = feq.equipment_type_id
		where feq.facility_id in (` + inPlaceholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EquipmentCategoryRow
	for rows.Next() {
		var er EquipmentCategoryRow
		if err := rows.Scan(&er.FacilityID, &er.CategoryCode); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}

// FetchPriceInfo returns every price entry of the id set. Rows come back
// in primary key order so "first CONTACT entry" stays deterministic for
// the hint fallback.
func (r *FacilityRepo) FetchPriceInfo(ctx context.Context, ids []uuid.UUID) ([]PriceInfoRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `select facility_id, kind, amount_from, amount_to, currency, note
		from price_info
		where facility_id in (` + inPlaceholders(len(ids)) + `)
		order by id`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PriceInfoRow
	for rows.Next() {
		var pr PriceInfoRow
		if err := rows.Scan(&pr.FacilityID, &pr.Kind, &pr.AmountFrom, &pr.AmountTo, &pr.Currency, &pr.Note); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// FetchContacts returns a facility's contact points, primary first and
// otherwise in insertion order.
func (r *FacilityRepo) FetchContacts(ctx context.Context, facilityID uuid.UUID) ([]ContactRow, error) {
	const q = `select type, value, label, is_primary
		from contact_point
		where facility_id = ?
		order by is_primary desc, id`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ContactRow
	for rows.Next() {
		var cr ContactRow
		if err := rows.Scan(&cr.Type, &cr.Value, &cr.Label, &cr.IsPrimary); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// FetchOpeningHours returns the weekday schedule ordered Monday..Sunday.
func (r *FacilityRepo) FetchOpeningHours(ctx context.Context, facilityID uuid.UUID) ([]OpeningHoursRow, error) {
	const q = `select day_of_week, is_closed, open_time, close_time, note
		from opening_hours
		where facility_id = ?
		order by day_of_week`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OpeningHoursRow
	for rows.Next() {
		var oh OpeningHoursRow
		if err := rows.Scan(&oh.DayOfWeek, &oh.IsClosed, &oh.OpenTime, &oh.CloseTime, &oh.Note); err != nil {
			return nil, err
		}
		out = append(out, oh)
	}
	return out, rows.Err()
}

// FetchGallery returns the facility's media gallery ordered by sort
// order, then upload time for stable ties.
func (r *FacilityRepo) FetchGallery(ctx context.Context, facilityID uuid.UUID) ([]MediaRow, error) {
	const q = `select m.url, fm.caption, fm.sort_order
		from facility_media fm
		join media m on m.id = fm.media_id
		where fm.facility_id = ?
		order by fm.sort_order, m.created_at`
	return r.queryMediaRows(ctx, q, facilityID)
}

// FetchCapabilityDetails returns the active capability attachments with
// their summary text and the opaque structured details blob.
func (r *FacilityRepo) FetchCapabilityDetails(ctx context.Context, facilityID uuid.UUID) ([]CapabilityDetailsRow, error) {
	const q = `select ct.code, ct.label, fc.summary, fc.details_json
		from facility_capability fc
		join capability_type ct on ct.id = fc.capability_type_id
		where fc.facility_id = ?
		  and fc.is_active = 1
		order by ct.code`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CapabilityDetailsRow
	for rows.Next() {
		var cd CapabilityDetailsRow
		var details []byte
		if err := rows.Scan(&cd.Code, &cd.Label, &cd.Summary, &details); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			cd.Details = json.RawMessage(details)
		}
		out = append(out, cd)
	}
	return out, rows.Err()
}

// FetchSpaces returns a facility's spaces ordered by name.
func (r *FacilityRepo) FetchSpaces(ctx context.Context, facilityID uuid.UUID) ([]SpaceRow, error) {
	const q = `select s.id, s.name, st.code as type_code, s.capacity_people, s.size_m2, s.description
		from space s
		join space_type st on st.id = s.space_type_id
		where s.facility_id = ?
		order by s.name`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SpaceRow
	for rows.Next() {
		var sr SpaceRow
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.TypeCode, &sr.CapacityPeople, &sr.SizeM2, &sr.Description); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// FetchSpaceMedia batch-loads the galleries of a space id set.
func (r *FacilityRepo) FetchSpaceMedia(ctx context.Context, spaceIDs []uuid.UUID) ([]SpaceMediaRow, error) {
	if len(spaceIDs) == 0 {
		return nil, nil
	}
	q := `select sm.space_id, m.url, sm.caption, sm.sort_order
		from space_media sm
		join media m on m.id = sm.media_id
		where sm.space_id in (` + inPlaceholders(len(spaceIDs)) + `)
		order by sm.sort_order, m.created_at`
	rows, err := r.db.QueryContext(ctx, q, idArgs(spaceIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SpaceMediaRow
	for rows.Next() {
		var sm SpaceMediaRow
		if err := rows.Scan(&sm.SpaceID, &sm.URL, &sm.Caption, &sm.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// FetchEquipment returns the full equipment list, grouped-friendly:
// ordered by category code then equipment name.
func (r *FacilityRepo) FetchEquipment(ctx context.Context, facilityID uuid.UUID) ([]EquipmentRow, error) {
	const q = `select et.category_code, et.name, feq.quantity, feq.mode, feq.note
		from facility_equipment feq
		join equipment_type et on et.id = feq.equipment_type_id
		where feq.facility_id = ?
		order by et.category_code, et.name`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EquipmentRow
	for rows.Next() {
		var er EquipmentRow
		if err := rows.Scan(&er.CategoryCode, &er.Name, &er.Quantity, &er.Mode, &er.Note); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}

// FetchFeatures returns a facility's feature attachments with all three
// value columns; precedence is resolved by the assembler, not here.
func (r *FacilityRepo) FetchFeatures(ctx context.Context, facilityID uuid.UUID) ([]FeatureRow, error) {
	const q = `select fe.code, fe.label, ff.value_bool, ff.value_text, ff.value_number
		from facility_feature ff
		join feature fe on fe.id = ff.feature_id
		where ff.facility_id = ?
		order by fe.code`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FeatureRow
	for rows.Next() {
		var fr FeatureRow
		if err := rows.Scan(&fr.Code, &fr.Label, &fr.ValueBool, &fr.ValueText, &fr.ValueNumber); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func (r *FacilityRepo) queryMediaRows(ctx context.Context, q string, args ...any) ([]MediaRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MediaRow
	for rows.Next() {
		var mr MediaRow
		if err := rows.Scan(&mr.URL, &mr.Caption, &mr.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, mr)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFacilityBase(s rowScanner, b *FacilityBaseRow) error {
	return s.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.CityID,
		&b.CityName,
		&b.AddressLabel,
		&b.Lat,
		&b.Lng,
		&b.CoverImageURL,
	)
}

func idArgs(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

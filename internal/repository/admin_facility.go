package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
)

// AdminFacilityRepo is the write side of facility management. Besides
// plain CRUD on the facility row it owns the replace-all operations for
// every attachment collection: the admin API always submits the full
// list, the previous rows are dropped and the new ones inserted inside
// one transaction.
type AdminFacilityRepo struct {
	db *sql.DB
}

func NewAdminFacilityRepo(db *sql.DB) *AdminFacilityRepo {
	return &AdminFacilityRepo{db: db}
}

// GetByID fetches a facility row regardless of status. Returns
// ErrNotFound when no row exists.
func (r *AdminFacilityRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	const q = `select id, city_id, name, description, address_id, cover_media_id, status, created_at, updated_at
		from facility where id = ?`
	var f model.Facility
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.CityID, &f.Name, &f.Description, &f.AddressID, &f.CoverMediaID, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Insert creates a facility row. The caller assigns the UUID so the
// handler can re-read the record immediately after.
func (r *AdminFacilityRepo) Insert(ctx context.Context, f *model.Facility) error {
	const q = `insert into facility (id, city_id, name, description, address_id, cover_media_id, status)
		values (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, f.ID, f.CityID, f.Name, f.Description, f.AddressID, f.CoverMediaID, f.Status)
	return err
}

// Update rewrites every mutable column. Field merging (keep old value
// when the request omits one) happens in the handler, which loads the
// row first.
func (r *AdminFacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	const q = `update facility
		set city_id = ?, name = ?, description = ?, address_id = ?, cover_media_id = ?, status = ?, updated_at = current_timestamp
		where id = ?`
	res, err := r.db.ExecContext(ctx, q, f.CityID, f.Name, f.Description, f.AddressID, f.CoverMediaID, f.Status, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a facility and all dependent rows (attachments, prices,
// hours, contacts, media links, spaces and their media links) within a
// transaction to maintain integrity.
func (r *AdminFacilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
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

	var exists int
	if err = tx.QueryRowContext(ctx, `select count(*) from facility where id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		err = ErrNotFound
		return err
	}

	// Space media first, then the spaces themselves.
	if _, err = tx.ExecContext(ctx,
		`delete sm from space_media sm
		 join space s on s.id = sm.space_id
		 where s.facility_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `delete from space where facility_id = ?`, id); err != nil {
		return err
	}
	for _, table := range []string{
		"facility_capability",
		"facility_feature",
		"facility_equipment",
		"price_info",
		"opening_hours",
		"contact_point",
		"facility_media",
	} {
		if _, err = tx.ExecContext(ctx, `delete from `+table+` where facility_id = ?`, id); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `delete from facility where id = ?`, id); err != nil {
		return err
	}
	return nil
}

// ContactInput, HoursInput, CapabilityInput, FeatureInput,
// EquipmentInput, PriceInput and MediaLinkInput are the rows accepted by
// the replace-all operations below. They mirror the admin request
// bodies one to one.
type ContactInput struct {
	Type      string
	Value     string
	Label     *string
	IsPrimary bool
}

type HoursInput struct {
	DayOfWeek int
	IsClosed  bool
	OpenTime  *string
	CloseTime *string
	Note      *string
}

type CapabilityInput struct {
	CapabilityTypeID uuid.UUID
	Summary          *string
	DetailsJSON      *string
	IsActive         bool
}

type FeatureInput struct {
	FeatureID   uuid.UUID
	ValueBool   *bool
	ValueText   *string
	ValueNumber *float64
}

type EquipmentInput struct {
	EquipmentTypeID uuid.UUID
	Quantity        *int
	Mode            string
	Note            *string
}

type PriceInput struct {
	CapabilityTypeID *uuid.UUID
	SpaceID          *uuid.UUID
	Kind             string
	AmountFrom       *float64
	AmountTo         *float64
	Currency         string
	Note             *string
}

type MediaLinkInput struct {
	MediaID   uuid.UUID
	SortOrder int
	Caption   *string
	IsCover   bool
}

// replaceAll wipes the facility's rows in one attachment table and
// re-inserts the submitted set inside a single transaction.
func (r *AdminFacilityRepo) replaceAll(ctx context.Context, facilityID uuid.UUID, deleteSQL string, insert func(tx *sql.Tx) error) error {
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
	if _, err = tx.ExecContext(ctx, deleteSQL, facilityID); err != nil {
		return err
	}
	err = insert(tx)
	return err
}

// ReplaceContacts swaps the full contact point list of a facility.
func (r *AdminFacilityRepo) ReplaceContacts(ctx context.Context, facilityID uuid.UUID, contacts []ContactInput) error {
	return r.replaceAll(ctx, facilityID, `delete from contact_point where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into contact_point (id, facility_id, type, value, label, is_primary) values (?, ?, ?, ?, ?, ?)`
		for _, c := range contacts {
			if _, err := tx.ExecContext(ctx, q, uuid.New(), facilityID, c.Type, c.Value, c.Label, c.IsPrimary); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceOpeningHours swaps the weekday schedule.
func (r *AdminFacilityRepo) ReplaceOpeningHours(ctx context.Context, facilityID uuid.UUID, hours []HoursInput) error {
	return r.replaceAll(ctx, facilityID, `delete from opening_hours where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into opening_hours (facility_id, day_of_week, is_closed, open_time, close_time, note) values (?, ?, ?, ?, ?, ?)`
		for _, h := range hours {
			if _, err := tx.ExecContext(ctx, q, facilityID, h.DayOfWeek, h.IsClosed, h.OpenTime, h.CloseTime, h.Note); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceCapabilities swaps the capability attachments.
func (r *AdminFacilityRepo) ReplaceCapabilities(ctx context.Context, facilityID uuid.UUID, caps []CapabilityInput) error {
	return r.replaceAll(ctx, facilityID, `delete from facility_capability where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into facility_capability (facility_id, capability_type_id, summary, details_json, is_active) values (?, ?, ?, ?, ?)`
		for _, c := range caps {
			if _, err := tx.ExecContext(ctx, q, facilityID, c.CapabilityTypeID, c.Summary, c.DetailsJSON, c.IsActive); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceFeatures swaps the feature attachments.
func (r *AdminFacilityRepo) ReplaceFeatures(ctx context.Context, facilityID uuid.UUID, features []FeatureInput) error {
	return r.replaceAll(ctx, facilityID, `delete from facility_feature where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into facility_feature (facility_id, feature_id, value_bool, value_text, value_number) values (?, ?, ?, ?, ?)`
		for _, f := range features {
			if _, err := tx.ExecContext(ctx, q, facilityID, f.FeatureID, f.ValueBool, f.ValueText, f.ValueNumber); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceEquipment swaps the equipment attachments.
func (r *AdminFacilityRepo) ReplaceEquipment(ctx context.Context, facilityID uuid.UUID, equipment []EquipmentInput) error {
	return r.replaceAll(ctx, facilityID, `delete from facility_equipment where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into facility_equipment (facility_id, equipment_type_id, quantity, mode, note) values (?, ?, ?, ?, ?)`
		for _, e := range equipment {
			if _, err := tx.ExecContext(ctx, q, facilityID, e.EquipmentTypeID, e.Quantity, e.Mode, e.Note); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplacePrices swaps the price entries.
func (r *AdminFacilityRepo) ReplacePrices(ctx context.Context, facilityID uuid.UUID, prices []PriceInput) error {
	return r.replaceAll(ctx, facilityID, `delete from price_info where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into price_info (id, facility_id, capability_type_id, space_id, kind, amount_from, amount_to, currency, note)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		for _, p := range prices {
			if _, err := tx.ExecContext(ctx, q, uuid.New(), facilityID, p.CapabilityTypeID, p.SpaceID, p.Kind, p.AmountFrom, p.AmountTo, p.Currency, p.Note); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceMedia swaps the facility's media links.
func (r *AdminFacilityRepo) ReplaceMedia(ctx context.Context, facilityID uuid.UUID, media []MediaLinkInput) error {
	return r.replaceAll(ctx, facilityID, `delete from facility_media where facility_id = ?`, func(tx *sql.Tx) error {
		const q = `insert into facility_media (facility_id, media_id, sort_order, caption, is_cover) values (?, ?, ?, ?, ?)`
		for _, m := range media {
			if _, err := tx.ExecContext(ctx, q, facilityID, m.MediaID, m.SortOrder, m.Caption, m.IsCover); err != nil {
				return err
			}
		}
		return nil
	})
}

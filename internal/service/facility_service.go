// Package service holds the business logic between handlers and
// repositories. The facility service normalizes filter input, runs the
// search through the store and assembles card/detail projections from
// batched attribute fetches, joining everything in memory by facility
// id.
package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"

	"facilities-directory/internal/model"
	"facilities-directory/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// ListFacilitiesInput carries the raw listing parameters as the handler
// parsed them. Code lists may contain duplicates, blanks and mixed case;
// the service normalizes them before querying.
type ListFacilitiesInput struct {
	CityID              uuid.UUID
	Query               string
	Capabilities        []string
	Features            []string
	EquipmentCategories []string
	SpaceTypes          []string
	HasAddress          *bool
	HasCoordinates      *bool
	PriceMin            *float64
	PriceMax            *float64
	Sort                string
	Page                int
	PageSize            int
}

// CityRef identifies the city a facility belongs to.
type CityRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Coordinates is a complete lat/lng pair. It is omitted entirely when
// either component is missing.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CapabilityBadge is the (code, label) pair shown on cards.
type CapabilityBadge struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// PriceHint is the single representative price picked for card display.
type PriceHint struct {
	Kind       string   `json:"kind"`
	AmountFrom *float64 `json:"amount_from,omitempty"`
	AmountTo   *float64 `json:"amount_to,omitempty"`
	Currency   string   `json:"currency"`
	Note       *string  `json:"note,omitempty"`
}

// Card is the lightweight per-facility projection used in list results.
type Card struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	City                CityRef           `json:"city"`
	AddressLabel        *string           `json:"address_label,omitempty"`
	Coordinates         *Coordinates      `json:"coordinates,omitempty"`
	CoverImageURL       *string           `json:"cover_image_url,omitempty"`
	Capabilities        []CapabilityBadge `json:"capabilities"`
	PriceHint           *PriceHint        `json:"price_hint,omitempty"`
	FeatureCodes        []string          `json:"feature_codes"`
	EquipmentCategories []string          `json:"equipment_categories"`
}

// MediaItem is one gallery entry.
type MediaItem struct {
	URL       string  `json:"url"`
	Caption   *string `json:"caption,omitempty"`
	SortOrder int     `json:"sort_order"`
}

// ContactPoint is one way to reach the facility.
type ContactPoint struct {
	Type      string  `json:"type"`
	Value     string  `json:"value"`
	Label     *string `json:"label,omitempty"`
	IsPrimary bool    `json:"is_primary"`
}

// OpeningHoursEntry is the schedule of one ISO weekday (1 = Monday).
type OpeningHoursEntry struct {
	DayOfWeek int     `json:"day_of_week"`
	IsClosed  bool    `json:"is_closed"`
	OpenTime  *string `json:"open_time,omitempty"`
	CloseTime *string `json:"close_time,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// CapabilityInfo is the full capability view on the detail page. Details
// is an opaque JSON document passed through as stored.
type CapabilityInfo struct {
	Code    string          `json:"code"`
	Label   string          `json:"label"`
	Summary *string         `json:"summary,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Space is one bookable room or area inside a facility.
type Space struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	TypeCode       string      `json:"type_code"`
	CapacityPeople *int        `json:"capacity_people,omitempty"`
	SizeM2         *float64    `json:"size_m2,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Gallery        []MediaItem `json:"gallery"`
}

// EquipmentItem is one piece of equipment inside a category group.
type EquipmentItem struct {
	Name     string  `json:"name"`
	Quantity *int    `json:"quantity,omitempty"`
	Mode     string  `json:"mode"`
	Note     *string `json:"note,omitempty"`
}

// EquipmentGroup collects a facility's equipment of one category.
type EquipmentGroup struct {
	CategoryCode string          `json:"category_code"`
	Items        []EquipmentItem `json:"items"`
}

// FeatureValue is a feature attachment with its resolved value: bool
// when set, else number, else text, else null.
type FeatureValue struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Detail is the full per-facility projection for the single-facility
// view. It extends the card fields.
type Detail struct {
	Card
	Description       *string             `json:"description,omitempty"`
	Gallery           []MediaItem         `json:"gallery"`
	Contacts          []ContactPoint      `json:"contacts"`
	OpeningHours      []OpeningHoursEntry `json:"opening_hours"`
	CapabilityDetails []CapabilityInfo    `json:"capability_details"`
	Spaces            []Space             `json:"spaces"`
	Equipment         []EquipmentGroup    `json:"equipment"`
	Features          []FeatureValue      `json:"features"`
}

// FacilityList is one page of search results with the total match count.
type FacilityList struct {
	Items    []Card `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int64  `json:"total"`
}

// FacilityService implements the public read operations of the
// directory.
type FacilityService struct {
	store FacilityStore
}

// NewFacilityService constructs a FacilityService on top of a store.
func NewFacilityService(store FacilityStore) *FacilityService {
	return &FacilityService{store: store}
}

// normalizeCodes trims, upper-cases and deduplicates a code list and
// drops blanks. An empty result means "no constraint".
func normalizeCodes(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		code := strings.ToUpper(strings.TrimSpace(v))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size == 0 {
		return defaultPageSize
	}
	if size < 1 {
		return 1
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// ListFacilities runs the search and assembles one card per match,
// preserving the search order.
func (s *FacilityService) ListFacilities(ctx context.Context, in ListFacilitiesInput) (*FacilityList, error) {
	query := repository.FacilitySearchQuery{
		CityID:              in.CityID,
		Query:               strings.TrimSpace(in.Query),
		CapabilityCodes:     normalizeCodes(in.Capabilities),
		FeatureCodes:        normalizeCodes(in.Features),
		EquipmentCategories: normalizeCodes(in.EquipmentCategories),
		SpaceTypes:          normalizeCodes(in.SpaceTypes),
		HasAddress:          in.HasAddress,
		HasCoordinates:      in.HasCoordinates,
		PriceMin:            in.PriceMin,
		PriceMax:            in.PriceMax,
	}
	page := clampPage(in.Page)
	pageSize := clampPageSize(in.PageSize)

	ids, err := s.store.FindFacilityIDs(ctx, query, in.Sort, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountFacilities(ctx, query)
	if err != nil {
		return nil, err
	}
	cards, err := s.assembleCards(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &FacilityList{Items: cards, Page: page, PageSize: pageSize, Total: total}, nil
}

// assembleCards batch-loads card attributes for the id set (one query
// per attribute kind) and joins them in memory, keeping the input order.
// Ids without a base row are skipped.
func (s *FacilityService) assembleCards(ctx context.Context, ids []uuid.UUID) ([]Card, error) {
	cards := make([]Card, 0, len(ids))
	if len(ids) == 0 {
		return cards, nil
	}

	base, err := s.store.FetchFacilitiesBase(ctx, ids)
	if err != nil {
		return nil, err
	}
	capRows, err := s.store.FetchCapabilities(ctx, ids)
	if err != nil {
		return nil, err
	}
	featureRows, err := s.store.FetchFeatureCodes(ctx, ids)
	if err != nil {
		return nil, err
	}
	equipRows, err := s.store.FetchEquipmentCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	priceRows, err := s.store.FetchPriceInfo(ctx, ids)
	if err != nil {
		return nil, err
	}

	capsByFacility := make(map[uuid.UUID][]CapabilityBadge)
	for _, row := range capRows {
		capsByFacility[row.FacilityID] = append(capsByFacility[row.FacilityID], CapabilityBadge{Code: row.Code, Label: row.Label})
	}
	featuresByFacility := make(map[uuid.UUID][]string)
	for _, row := range featureRows {
		featuresByFacility[row.FacilityID] = append(featuresByFacility[row.FacilityID], row.Code)
	}
	equipByFacility := make(map[uuid.UUID][]string)
	for _, row := range equipRows {
		equipByFacility[row.FacilityID] = append(equipByFacility[row.FacilityID], row.CategoryCode)
	}
	pricesByFacility := make(map[uuid.UUID][]repository.PriceInfoRow)
	for _, row := range priceRows {
		pricesByFacility[row.FacilityID] = append(pricesByFacility[row.FacilityID], row)
	}

	for _, id := range ids {
		b, ok := base[id]
		if !ok {
			continue
		}
		cards = append(cards, Card{
			ID:                  b.ID,
			Name:                b.Name,
			City:                CityRef{ID: b.CityID, Name: b.CityName},
			AddressLabel:        b.AddressLabel,
			Coordinates:         coordinatesOf(b),
			CoverImageURL:       b.CoverImageURL,
			Capabilities:        nonNil(capsByFacility[id]),
			PriceHint:           buildPriceHint(pricesByFacility[id]),
			FeatureCodes:        sortedDistinct(featuresByFacility[id]),
			EquipmentCategories: sortedDistinct(equipByFacility[id]),
		})
	}
	return cards, nil
}

// GetFacilityDetails assembles the full projection of one facility. It
// returns repository.ErrNotFound when the id is unknown or the facility
// is not publicly visible.
func (s *FacilityService) GetFacilityDetails(ctx context.Context, id uuid.UUID) (*Detail, error) {
	b, err := s.store.FetchFacilityBase(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{id}
	capRows, err := s.store.FetchCapabilities(ctx, ids)
	if err != nil {
		return nil, err
	}
	featureCodeRows, err := s.store.FetchFeatureCodes(ctx, ids)
	if err != nil {
		return nil, err
	}
	equipCategoryRows, err := s.store.FetchEquipmentCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	priceRows, err := s.store.FetchPriceInfo(ctx, ids)
	if err != nil {
		return nil, err
	}

	capabilities := make([]CapabilityBadge, 0, len(capRows))
	for _, row := range capRows {
		capabilities = append(capabilities, CapabilityBadge{Code: row.Code, Label: row.Label})
	}
	featureCodes := make([]string, 0, len(featureCodeRows))
	for _, row := range featureCodeRows {
		featureCodes = append(featureCodes, row.Code)
	}
	equipCategories := make([]string, 0, len(equipCategoryRows))
	for _, row := range equipCategoryRows {
		equipCategories = append(equipCategories, row.CategoryCode)
	}

	detail := &Detail{
		Card: Card{
			ID:                  b.ID,
			Name:                b.Name,
			City:                CityRef{ID: b.CityID, Name: b.CityName},
			AddressLabel:        b.AddressLabel,
			Coordinates:         coordinatesOf(*b),
			CoverImageURL:       b.CoverImageURL,
			Capabilities:        capabilities,
			PriceHint:           buildPriceHint(priceRows),
			FeatureCodes:        sortedDistinct(featureCodes),
			EquipmentCategories: sortedDistinct(equipCategories),
		},
		Description: b.Description,
	}

	gallery, err := s.store.FetchGallery(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Gallery = mediaItems(gallery)

	contacts, err := s.store.FetchContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Contacts = make([]ContactPoint, 0, len(contacts))
	for _, c := range contacts {
		detail.Contacts = append(detail.Contacts, ContactPoint{Type: c.Type, Value: c.Value, Label: c.Label, IsPrimary: c.IsPrimary})
	}

	hours, err := s.store.FetchOpeningHours(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.OpeningHours = make([]OpeningHoursEntry, 0, len(hours))
	for _, h := range hours {
		detail.OpeningHours = append(detail.OpeningHours, OpeningHoursEntry{
			DayOfWeek: h.DayOfWeek,
			IsClosed:  h.IsClosed,
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
			Note:      h.Note,
		})
	}

	capDetails, err := s.store.FetchCapabilityDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.CapabilityDetails = make([]CapabilityInfo, 0, len(capDetails))
	for _, cd := range capDetails {
		detail.CapabilityDetails = append(detail.CapabilityDetails, CapabilityInfo{
			Code:    cd.Code,
			Label:   cd.Label,
			Summary: cd.Summary,
			Details: cd.Details,
		})
	}

	spaces, err := s.assembleSpaces(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Spaces = spaces

	equipment, err := s.store.FetchEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Equipment = groupEquipment(equipment)

	features, err := s.store.FetchFeatures(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Features = make([]FeatureValue, 0, len(features))
	for _, f := range features {
		detail.Features = append(detail.Features, FeatureValue{Code: f.Code, Label: f.Label, Value: resolveFeatureValue(f)})
	}

	return detail, nil
}

// assembleSpaces loads the facility's spaces and batch-joins their
// galleries in one media query for the whole space id set.
func (s *FacilityService) assembleSpaces(ctx context.Context, facilityID uuid.UUID) ([]Space, error) {
	rows, err := s.store.FetchSpaces(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	spaces := make([]Space, 0, len(rows))
	if len(rows) == 0 {
		return spaces, nil
	}

	spaceIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		spaceIDs = append(spaceIDs, r.ID)
	}
	mediaRows, err := s.store.FetchSpaceMedia(ctx, spaceIDs)
	if err != nil {
		return nil, err
	}
	mediaBySpace := make(map[uuid.UUID][]MediaItem)
	for _, m := range mediaRows {
		mediaBySpace[m.SpaceID] = append(mediaBySpace[m.SpaceID], MediaItem{URL: m.URL, Caption: m.Caption, SortOrder: m.SortOrder})
	}

	for _, r := range rows {
		spaces = append(spaces, Space{
			ID:             r.ID,
			Name:           r.Name,
			TypeCode:       r.TypeCode,
			CapacityPeople: r.CapacityPeople,
			SizeM2:         r.SizeM2,
			Description:    r.Description,
			Gallery:        nonNil(mediaBySpace[r.ID]),
		})
	}
	return spaces, nil
}

// buildPriceHint picks the representative price: the cheapest numeric
// entry when one exists, otherwise the first CONTACT entry in store
// order, otherwise nothing.
func buildPriceHint(entries []repository.PriceInfoRow) *PriceHint {
	var best *repository.PriceInfoRow
	var bestAmount float64
	for i := range entries {
		e := &entries[i]
		if e.Kind == model.PriceKindContact {
			continue
		}
		if e.AmountFrom == nil && e.AmountTo == nil {
			continue
		}
		amount := 0.0
		switch {
		case e.AmountFrom != nil:
			amount = *e.AmountFrom
		case e.AmountTo != nil:
			amount = *e.AmountTo
		}
		if best == nil || amount < bestAmount {
			best = e
			bestAmount = amount
		}
	}
	if best == nil {
		for i := range entries {
			if entries[i].Kind == model.PriceKindContact {
				best = &entries[i]
				break
			}
		}
	}
	if best == nil {
		return nil
	}
	return &PriceHint{
		Kind:       best.Kind,
		AmountFrom: best.AmountFrom,
		AmountTo:   best.AmountTo,
		Currency:   best.Currency,
		Note:       best.Note,
	}
}

// resolveFeatureValue applies the value precedence bool, then number,
// then text.
func resolveFeatureValue(f repository.FeatureRow) any {
	switch {
	case f.ValueBool != nil:
		return *f.ValueBool
	case f.ValueNumber != nil:
		return *f.ValueNumber
	case f.ValueText != nil:
		return *f.ValueText
	default:
		return nil
	}
}

// groupEquipment folds the category-ordered equipment rows into one
// group per category. Rows arrive ordered by category then name, so the
// groups and their items keep that order.
func groupEquipment(rows []repository.EquipmentRow) []EquipmentGroup {
	groups := make([]EquipmentGroup, 0)
	for _, r := range rows {
		item := EquipmentItem{Name: r.Name, Quantity: r.Quantity, Mode: r.Mode, Note: r.Note}
		if n := len(groups); n > 0 && groups[n-1].CategoryCode == r.CategoryCode {
			groups[n-1].Items = append(groups[n-1].Items, item)
			continue
		}
		groups = append(groups, EquipmentGroup{CategoryCode: r.CategoryCode, Items: []EquipmentItem{item}})
	}
	return groups
}

func coordinatesOf(b repository.FacilityBaseRow) *Coordinates {
	if b.Lat == nil || b.Lng == nil {
		return nil
	}
	return &Coordinates{Lat: *b.Lat, Lng: *b.Lng}
}

func mediaItems(rows []repository.MediaRow) []MediaItem {
	out := make([]MediaItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, MediaItem{URL: r.URL, Caption: r.Caption, SortOrder: r.SortOrder})
	}
	return out
}

func sortedDistinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// nonNil keeps empty JSON arrays rendering as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

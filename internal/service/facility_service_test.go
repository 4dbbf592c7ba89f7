package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities-directory/internal/model"
	"facilities-directory/internal/repository"
)

// fakeStore is an in-memory FacilityStore whose fields are set per test.
type fakeStore struct {
	ids   []uuid.UUID
	total int64

	base     map[uuid.UUID]repository.FacilityBaseRow
	caps     []repository.CapabilityRow
	features []repository.FeatureCodeRow
	equipCat []repository.EquipmentCategoryRow
	prices   []repository.PriceInfoRow

	detailBase    *repository.FacilityBaseRow
	detailErr     error
	contacts      []repository.ContactRow
	hours         []repository.OpeningHoursRow
	gallery       []repository.MediaRow
	capDetails    []repository.CapabilityDetailsRow
	spaces        []repository.SpaceRow
	spaceMedia    []repository.SpaceMediaRow
	equipment     []repository.EquipmentRow
	featureValues []repository.FeatureRow

	lastQuery    repository.FacilitySearchQuery
	lastSort     string
	lastPage     int
	lastPageSize int
}

func (f *fakeStore) FindFacilityIDs(_ context.Context, q repository.FacilitySearchQuery, sort string, page, pageSize int) ([]uuid.UUID, error) {
	f.lastQuery = q
	f.lastSort = sort
	f.lastPage = page
	f.lastPageSize = pageSize
	return f.ids, nil
}

func (f *fakeStore) CountFacilities(_ context.Context, _ repository.FacilitySearchQuery) (int64, error) {
	return f.total, nil
}

func (f *fakeStore) FetchFacilitiesBase(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]repository.FacilityBaseRow, error) {
	return f.base, nil
}

func (f *fakeStore) FetchCapabilities(_ context.Context, _ []uuid.UUID) ([]repository.CapabilityRow, error) {
	return f.caps, nil
}

func (f *fakeStore) FetchFeatureCodes(_ context.Context, _ []uuid.UUID) ([]repository.FeatureCodeRow, error) {
	return f.features, nil
}

func (f *fakeStore) FetchEquipmentCategories(_ context.Context, _ []uuid.UUID) ([]repository.EquipmentCategoryRow, error) {
	return f.equipCat, nil
}

func (f *fakeStore) FetchPriceInfo(_ context.Context, _ []uuid.UUID) ([]repository.PriceInfoRow, error) {
	return f.prices, nil
}

func (f *fakeStore) FetchFacilityBase(_ context.Context, _ uuid.UUID) (*repository.FacilityBaseRow, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detailBase, nil
}

func (f *fakeStore) FetchContacts(_ context.Context, _ uuid.UUID) ([]repository.ContactRow, error) {
	return f.contacts, nil
}

func (f *fakeStore) FetchOpeningHours(_ context.Context, _ uuid.UUID) ([]repository.OpeningHoursRow, error) {
	return f.hours, nil
}

func (f *fakeStore) FetchGallery(_ context.Context, _ uuid.UUID) ([]repository.MediaRow, error) {
	return f.gallery, nil
}

func (f *fakeStore) FetchCapabilityDetails(_ context.Context, _ uuid.UUID) ([]repository.CapabilityDetailsRow, error) {
	return f.capDetails, nil
}

func (f *fakeStore) FetchSpaces(_ context.Context, _ uuid.UUID) ([]repository.SpaceRow, error) {
	return f.spaces, nil
}

func (f *fakeStore) FetchSpaceMedia(_ context.Context, _ []uuid.UUID) ([]repository.SpaceMediaRow, error) {
	return f.spaceMedia, nil
}

func (f *fakeStore) FetchEquipment(_ context.Context, _ uuid.UUID) ([]repository.EquipmentRow, error) {
	return f.equipment, nil
}

func (f *fakeStore) FetchFeatures(_ context.Context, _ uuid.UUID) ([]repository.FeatureRow, error) {
	return f.featureValues, nil
}

func ptrF(v float64) *float64 { return &v }
func ptrS(v string) *string { return &v }

func TestNormalizeCodes(t *testing.T) {
	got := normalizeCodes([]string{" wifi ", "WIFI", "", "Stage", "stage", "  "})
	assert.Equal(t, []string{"WIFI", "STAGE"}, got)

	assert.Empty(t, normalizeCodes(nil))
	assert.Empty(t, normalizeCodes([]string{"", "   "}))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, clampPage(0))
	assert.Equal(t, 1, clampPage(-3))
	assert.Equal(t, 7, clampPage(7))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, defaultPageSize, clampPageSize(0))
	assert.Equal(t, 1, clampPageSize(-1))
	assert.Equal(t, maxPageSize, clampPageSize(500))
	assert.Equal(t, 10, clampPageSize(10))
}

func TestBuildPriceHintPrefersCheapestNumeric(t *testing.T) {
	entries := []repository.PriceInfoRow{
		{Kind: "DAY", AmountFrom: ptrF(900), Currency: "EUR"},
		{Kind: "HOUR", AmountFrom: ptrF(120), AmountTo: ptrF(180), Currency: "EUR"},
		{Kind: model.PriceKindContact, Currency: "EUR"},
	}
	hint := buildPriceHint(entries)
	require.NotNil(t, hint)
	assert.Equal(t, "HOUR", hint.Kind)
	assert.Equal(t, 120.0, *hint.AmountFrom)
}

func TestBuildPriceHintAmountToOnly(t *testing.T) {
	entries := []repository.PriceInfoRow{
		{Kind: "DAY", AmountTo: ptrF(50), Currency: "EUR"},
		{Kind: "HOUR", AmountFrom: ptrF(80), Currency: "EUR"},
	}
	hint := buildPriceHint(entries)
	require.NotNil(t, hint)
	assert.Equal(t, "DAY", hint.Kind)
}

func TestBuildPriceHintContactFallback(t *testing.T) {
	note := ptrS("call us")
	entries := []repository.PriceInfoRow{
		{Kind: model.PriceKindContact, Currency: "EUR", Note: note},
		{Kind: model.PriceKindContact, Currency: "USD"},
	}
	hint := buildPriceHint(entries)
	require.NotNil(t, hint)
	assert.Equal(t, model.PriceKindContact, hint.Kind)
	assert.Equal(t, "EUR", hint.Currency)
	assert.Equal(t, note, hint.Note)
}

func TestBuildPriceHintEmpty(t *testing.T) {
	assert.Nil(t, buildPriceHint(nil))
	// Numeric entries without any amount carry no usable hint either.
	assert.Nil(t, buildPriceHint([]repository.PriceInfoRow{{Kind: "HOUR", Currency: "EUR"}}))
}

func TestResolveFeatureValuePrecedence(t *testing.T) {
	b := true
	n := 42.5
	s := "fiber"

	assert.Equal(t, true, resolveFeatureValue(repository.FeatureRow{ValueBool: &b, ValueNumber: &n, ValueText: &s}))
	assert.Equal(t, 42.5, resolveFeatureValue(repository.FeatureRow{ValueNumber: &n, ValueText: &s}))
	assert.Equal(t, "fiber", resolveFeatureValue(repository.FeatureRow{ValueText: &s}))
	assert.Nil(t, resolveFeatureValue(repository.FeatureRow{}))
}

func TestGroupEquipment(t *testing.T) {
	rows := []repository.EquipmentRow{
		{CategoryCode: "AUDIO", Name: "Mixer", Mode: "INCLUDED"},
		{CategoryCode: "AUDIO", Name: "Speakers", Mode: "INCLUDED"},
		{CategoryCode: "LIGHT", Name: "Spots", Mode: "RENTAL"},
	}
	groups := groupEquipment(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "AUDIO", groups[0].CategoryCode)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "LIGHT", groups[1].CategoryCode)
	assert.Equal(t, "Spots", groups[1].Items[0].Name)
}

func TestSortedDistinct(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, sortedDistinct([]string{"C", "A", "B", "A"}))
	assert.Equal(t, []string{}, sortedDistinct(nil))
}

func TestListFacilitiesNormalizesAndClamps(t *testing.T) {
	store := &fakeStore{total: 0, base: map[uuid.UUID]repository.FacilityBaseRow{}}
	svc := NewFacilityService(store)

	cityID := uuid.New()
	out, err := svc.ListFacilities(context.Background(), ListFacilitiesInput{
		CityID:       cityID,
		Query:        "  jazz hall  ",
		Capabilities: []string{"events", "EVENTS", ""},
		Sort:         repository.SortPriceAsc,
		Page:         0,
		PageSize:     999,
	})
	require.NoError(t, err)

	assert.Equal(t, cityID, store.lastQuery.CityID)
	assert.Equal(t, "jazz hall", store.lastQuery.Query)
	assert.Equal(t, []string{"EVENTS"}, store.lastQuery.CapabilityCodes)
	assert.Equal(t, repository.SortPriceAsc, store.lastSort)
	assert.Equal(t, 1, store.lastPage)
	assert.Equal(t, maxPageSize, store.lastPageSize)

	assert.Equal(t, 1, out.Page)
	assert.Equal(t, maxPageSize, out.PageSize)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
}

func TestListFacilitiesPreservesOrderAndSkipsMissing(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	ghost := uuid.New()

	store := &fakeStore{
		ids:   []uuid.UUID{id2, ghost, id1},
		total: 3,
		base: map[uuid.UUID]repository.FacilityBaseRow{
			id1: {ID: id1, Name: "Alpha Hall", CityID: uuid.New(), CityName: "Berlin"},
			id2: {ID: id2, Name: "Beta Loft", CityID: uuid.New(), CityName: "Berlin", Lat: ptrF(52.5), Lng: ptrF(13.4)},
		},
		caps: []repository.CapabilityRow{
			{FacilityID: id2, Code: "EVENTS", Label: "Events"},
		},
		features: []repository.FeatureCodeRow{
			{FacilityID: id2, Code: "WIFI"},
			{FacilityID: id2, Code: "PARKING"},
			{FacilityID: id2, Code: "WIFI"},
		},
	}
	svc := NewFacilityService(store)

	out, err := svc.ListFacilities(context.Background(), ListFacilitiesInput{CityID: uuid.New()})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)

	// Search order survives the in-memory join; the id without a base
	// row is dropped.
	assert.Equal(t, id2, out.Items[0].ID)
	assert.Equal(t, id1, out.Items[1].ID)

	first := out.Items[0]
	require.NotNil(t, first.Coordinates)
	assert.Equal(t, 52.5, first.Coordinates.Lat)
	assert.Equal(t, []string{"PARKING", "WIFI"}, first.FeatureCodes)
	require.Len(t, first.Capabilities, 1)
	assert.Equal(t, "EVENTS", first.Capabilities[0].Code)

	second := out.Items[1]
	assert.Nil(t, second.Coordinates)
	assert.Empty(t, second.Capabilities)
	assert.Empty(t, second.FeatureCodes)
	assert.Nil(t, second.PriceHint)
}

func TestGetFacilityDetailsNotFound(t *testing.T) {
	store := &fakeStore{detailErr: repository.ErrNotFound}
	svc := NewFacilityService(store)

	_, err := svc.GetFacilityDetails(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetFacilityDetailsAssemblesEverything(t *testing.T) {
	id := uuid.New()
	spaceID := uuid.New()
	b := true

	store := &fakeStore{
		detailBase: &repository.FacilityBaseRow{
			ID:          id,
			Name:        "Kulturhaus",
			CityID:      uuid.New(),
			CityName:    "Hamburg",
			Description: ptrS("Old warehouse turned venue."),
		},
		prices: []repository.PriceInfoRow{
			{FacilityID: id, Kind: model.PriceKindContact, Currency: "EUR"},
		},
		gallery: []repository.MediaRow{
			{URL: "https://img.example/1.jpg", SortOrder: 0},
		},
		contacts: []repository.ContactRow{
			{Type: "EMAIL", Value: "hi@kulturhaus.de", IsPrimary: true},
		},
		hours: []repository.OpeningHoursRow{
			{DayOfWeek: 1, OpenTime: ptrS("09:00"), CloseTime: ptrS("18:00")},
			{DayOfWeek: 7, IsClosed: true},
		},
		capDetails: []repository.CapabilityDetailsRow{
			{Code: "EVENTS", Label: "Events", Details: []byte(`{"max_guests":300}`)},
		},
		spaces: []repository.SpaceRow{
			{ID: spaceID, Name: "Main Hall", TypeCode: "HALL"},
		},
		spaceMedia: []repository.SpaceMediaRow{
			{SpaceID: spaceID, URL: "https://img.example/hall.jpg", SortOrder: 1},
		},
		equipment: []repository.EquipmentRow{
			{CategoryCode: "AUDIO", Name: "PA system", Mode: "INCLUDED"},
		},
		featureValues: []repository.FeatureRow{
			{Code: "WIFI", Label: "WiFi", ValueBool: &b},
		},
	}
	svc := NewFacilityService(store)

	detail, err := svc.GetFacilityDetails(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Kulturhaus", detail.Name)
	assert.Equal(t, "Old warehouse turned venue.", *detail.Description)

	require.NotNil(t, detail.PriceHint)
	assert.Equal(t, model.PriceKindContact, detail.PriceHint.Kind)

	require.Len(t, detail.Gallery, 1)
	require.Len(t, detail.Contacts, 1)
	assert.True(t, detail.Contacts[0].IsPrimary)
	require.Len(t, detail.OpeningHours, 2)
	assert.True(t, detail.OpeningHours[1].IsClosed)

	require.Len(t, detail.CapabilityDetails, 1)
	assert.JSONEq(t, `{"max_guests":300}`, string(detail.CapabilityDetails[0].Details))

	require.Len(t, detail.Spaces, 1)
	require.Len(t, detail.Spaces[0].Gallery, 1)
	assert.Equal(t, "https://img.example/hall.jpg", detail.Spaces[0].Gallery[0].URL)

	require.Len(t, detail.Equipment, 1)
	assert.Equal(t, "AUDIO", detail.Equipment[0].CategoryCode)

	require.Len(t, detail.Features, 1)
	assert.Equal(t, true, detail.Features[0].Value)
}

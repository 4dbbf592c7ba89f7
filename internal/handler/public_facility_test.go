package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities-directory/internal/repository"
	"facilities-directory/internal/service"
)

// emptyStore satisfies service.FacilityStore with empty results so the
// handler's parsing and response shaping can be exercised end to end.
type emptyStore struct {
	ids  []uuid.UUID
	base map[uuid.UUID]repository.FacilityBaseRow
}

func (s *emptyStore) FindFacilityIDs(context.Context, repository.FacilitySearchQuery, string, int, int) ([]uuid.UUID, error) {
	return s.ids, nil
}

func (s *emptyStore) CountFacilities(context.Context, repository.FacilitySearchQuery) (int64, error) {
	return int64(len(s.ids)), nil
}

func (s *emptyStore) FetchFacilitiesBase(context.Context, []uuid.UUID) (map[uuid.UUID]repository.FacilityBaseRow, error) {
	return s.base, nil
}

func (s *emptyStore) FetchCapabilities(context.Context, []uuid.UUID) ([]repository.CapabilityRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchFeatureCodes(context.Context, []uuid.UUID) ([]repository.FeatureCodeRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchEquipmentCategories(context.Context, []uuid.UUID) ([]repository.EquipmentCategoryRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchPriceInfo(context.Context, []uuid.UUID) ([]repository.PriceInfoRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchFacilityBase(_ context.Context, id uuid.UUID) (*repository.FacilityBaseRow, error) {
	if b, ok := s.base[id]; ok {
		return &b, nil
	}
	return nil, repository.ErrNotFound
}

func (s *emptyStore) FetchContacts(context.Context, uuid.UUID) ([]repository.ContactRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchOpeningHours(context.Context, uuid.UUID) ([]repository.OpeningHoursRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchGallery(context.Context, uuid.UUID) ([]repository.MediaRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchCapabilityDetails(context.Context, uuid.UUID) ([]repository.CapabilityDetailsRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchSpaces(context.Context, uuid.UUID) ([]repository.SpaceRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchSpaceMedia(context.Context, []uuid.UUID) ([]repository.SpaceMediaRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchEquipment(context.Context, uuid.UUID) ([]repository.EquipmentRow, error) {
	return nil, nil
}

func (s *emptyStore) FetchFeatures(context.Context, uuid.UUID) ([]repository.FeatureRow, error) {
	return nil, nil
}

func newFacilityHandler(store service.FacilityStore) *PublicHandler {
	return NewPublicHandler(nil, nil, service.NewFacilityService(store))
}

func getContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListFacilitiesRequiresCityID(t *testing.T) {
	h := newFacilityHandler(&emptyStore{})

	c, rec := getContext("/v1/facilities")
	require.NoError(t, h.ListFacilities(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cityId")

	c, rec = getContext("/v1/facilities?cityId=not-a-uuid")
	require.NoError(t, h.ListFacilities(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFacilitiesRejectsBadOptionalParams(t *testing.T) {
	h := newFacilityHandler(&emptyStore{})
	cityID := uuid.New().String()

	for _, target := range []string{
		"/v1/facilities?cityId=" + cityID + "&hasAddress=maybe",
		"/v1/facilities?cityId=" + cityID + "&hasCoordinates=yes!",
		"/v1/facilities?cityId=" + cityID + "&priceMin=cheap",
		"/v1/facilities?cityId=" + cityID + "&priceMax=1e",
	} {
		c, rec := getContext(target)
		require.NoError(t, h.ListFacilities(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListFacilitiesEmptyPage(t *testing.T) {
	h := newFacilityHandler(&emptyStore{})

	c, rec := getContext("/v1/facilities?cityId=" + uuid.New().String() + "&capability=EVENTS&feature=WIFI&page=2&pageSize=5")
	require.NoError(t, h.ListFacilities(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items    []json.RawMessage `json:"items"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
		Total    int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Items)
	assert.Empty(t, body.Items)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 5, body.PageSize)
	assert.Equal(t, int64(0), body.Total)
}

func TestGetFacilityInvalidID(t *testing.T) {
	h := newFacilityHandler(&emptyStore{})

	c, rec := getContext("/v1/facilities/abc")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.GetFacility(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetFacilityNotFound(t *testing.T) {
	h := newFacilityHandler(&emptyStore{})

	c, rec := getContext("/v1/facilities/" + uuid.New().String())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	require.NoError(t, h.GetFacility(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFacilityFound(t *testing.T) {
	id := uuid.New()
	store := &emptyStore{base: map[uuid.UUID]repository.FacilityBaseRow{
		id: {ID: id, Name: "Stadthalle", CityID: uuid.New(), CityName: "Bremen"},
	}}
	h := newFacilityHandler(store)

	c, rec := getContext("/v1/facilities/" + id.String())
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, h.GetFacility(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Item struct {
			ID   uuid.UUID `json:"id"`
			Name string    `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body.Item.ID)
	assert.Equal(t, "Stadthalle", body.Item.Name)
	assert.Equal(t, "Bremen", body.Item.City.Name)
}

package handler

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/queue"
	"facilities-directory/internal/repository"
)

// AdminHandler bundles the write-side repositories behind the
// JWT-protected admin API.
type AdminHandler struct {
	Cities     *repository.AdminCityRepo
	Facilities *repository.AdminFacilityRepo
	Addresses  *repository.AdminAddressRepo
	Media      *repository.AdminMediaRepo
	Spaces     *repository.AdminSpaceRepo

	CapabilityTypes *repository.AdminCapabilityTypeRepo
	Features        *repository.AdminFeatureRepo
	EquipmentTypes  *repository.AdminEquipmentTypeRepo
	SpaceTypes      *repository.AdminSpaceTypeRepo
}

// NewAdminHandler wires every admin repository off the shared DB
// handle.
func NewAdminHandler(db *sql.DB) *AdminHandler {
	return &AdminHandler{
		Cities:          repository.NewAdminCityRepo(db),
		Facilities:      repository.NewAdminFacilityRepo(db),
		Addresses:       repository.NewAdminAddressRepo(db),
		Media:           repository.NewAdminMediaRepo(db),
		Spaces:          repository.NewAdminSpaceRepo(db),
		CapabilityTypes: repository.NewAdminCapabilityTypeRepo(db),
		Features:        repository.NewAdminFeatureRepo(db),
		EquipmentTypes:  repository.NewAdminEquipmentTypeRepo(db),
		SpaceTypes:      repository.NewAdminSpaceTypeRepo(db),
	}
}

// idParam parses the :id route parameter as a UUID.
func idParam(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

// publishChange emits a facility.changed event so the cache consumer
// can drop stale public responses. Broker failures are logged inside
// the publisher and do not fail the admin request.
func publishChange(ctx context.Context, entity, action string, facilityID, cityID uuid.UUID) {
	ev := queue.FacilityChangedEvent{Entity: entity, Action: action}
	if facilityID != uuid.Nil {
		ev.FacilityID = facilityID.String()
	}
	if cityID != uuid.Nil {
		ev.CityID = cityID.String()
	}
	_ = queue.PublishFacilityChanged(ctx, ev)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"facilities-directory/internal/repository"
)

// FacilityStore is the read surface the assembler works against. It is
// satisfied by *repository.FacilityRepo; tests substitute an in-memory
// fake.
type FacilityStore interface {
	FindFacilityIDs(ctx context.Context, q repository.FacilitySearchQuery, sort string, page, pageSize int) ([]uuid.UUID, error)
	CountFacilities(ctx context.Context, q repository.FacilitySearchQuery) (int64, error)

	FetchFacilitiesBase(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]repository.FacilityBaseRow, error)
	FetchCapabilities(ctx context.Context, ids []uuid.UUID) ([]repository.CapabilityRow, error)
	FetchFeatureCodes(ctx context.Context, ids []uuid.UUID) ([]repository.FeatureCodeRow, error)
	FetchEquipmentCategories(ctx context.Context, ids []uuid.UUID) ([]repository.EquipmentCategoryRow, error)
	FetchPriceInfo(ctx context.Context, ids []uuid.UUID) ([]repository.PriceInfoRow, error)

	FetchFacilityBase(ctx context.Context, id uuid.UUID) (*repository.FacilityBaseRow, error)
	FetchContacts(ctx context.Context, facilityID uuid.UUID) ([]repository.ContactRow, error)
	FetchOpeningHours(ctx context.Context, facilityID uuid.UUID) ([]repository.OpeningHoursRow, error)
	FetchGallery(ctx context.Context, facilityID uuid.UUID) ([]repository.MediaRow, error)
	FetchCapabilityDetails(ctx context.Context, facilityID uuid.UUID) ([]repository.CapabilityDetailsRow, error)
	FetchSpaces(ctx context.Context, facilityID uuid.UUID) ([]repository.SpaceRow, error)
	FetchSpaceMedia(ctx context.Context, spaceIDs []uuid.UUID) ([]repository.SpaceMediaRow, error)
	FetchEquipment(ctx context.Context, facilityID uuid.UUID) ([]repository.EquipmentRow, error)
	FetchFeatures(ctx context.Context, facilityID uuid.UUID) ([]repository.FeatureRow, error)
}

// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"facilities-directory/internal/config"
	"facilities-directory/internal/handler"
	"facilities-directory/internal/middleware"
)

// RegisterRoutes registers routes that carry no middleware at all.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the admin login endpoint. It is public so the
// admin can obtain a token in the first place.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/login", a.Login)
}

// RegisterPublic registers the unauthenticated directory endpoints.
// All of them sit behind the Redis response cache and the token bucket
// rate limiter; both degrade to pass-throughs when Redis is absent.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group("/v1", limit, cache)
	g.GET("/cities", p.ListCities)
	g.GET("/meta", p.GetMeta)
	// The core listing: city-scoped search with filters, sort and
	// pagination.
	g.GET("/facilities", p.ListFacilities)
	g.GET("/facilities/:id", p.GetFacility)
}

// RegisterAdmin registers the JWT-protected management API under
// /admin/v1. Every route requires a valid access token with the ADMIN
// role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/admin/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.GET("/cities", a.ListCitiesAdmin)
	g.GET("/cities/:id", a.GetCity)
	g.POST("/cities", a.CreateCity)
	g.PUT("/cities/:id", a.UpdateCity)
	g.DELETE("/cities/:id", a.DeleteCity)

	g.GET("/facilities/:id", a.GetFacilityAdmin)
	g.POST("/facilities", a.CreateFacility)
	g.PUT("/facilities/:id", a.UpdateFacility)
	g.DELETE("/facilities/:id", a.DeleteFacility)

	// Replace-all attachment collections; each answers 204.
	g.PUT("/facilities/:id/contacts", a.ReplaceContacts)
	g.PUT("/facilities/:id/opening-hours", a.ReplaceOpeningHours)
	g.PUT("/facilities/:id/capabilities", a.ReplaceCapabilities)
	g.PUT("/facilities/:id/features", a.ReplaceFeatures)
	g.PUT("/facilities/:id/equipment", a.ReplaceEquipment)
	g.PUT("/facilities/:id/prices", a.ReplacePrices)
	g.PUT("/facilities/:id/media", a.ReplaceFacilityMedia)

	g.GET("/addresses/:id", a.GetAddress)
	g.POST("/addresses", a.CreateAddress)
	g.PUT("/addresses/:id", a.UpdateAddress)
	g.DELETE("/addresses/:id", a.DeleteAddress)

	g.GET("/spaces/:id", a.GetSpace)
	g.POST("/spaces", a.CreateSpace)
	g.PUT("/spaces/:id", a.UpdateSpace)
	g.DELETE("/spaces/:id", a.DeleteSpace)
	g.PUT("/spaces/:id/media", a.ReplaceSpaceMedia)

	g.GET("/media/:id", a.GetMedia)
	g.POST("/media", a.CreateMedia)
	g.PUT("/media/:id", a.UpdateMedia)
	g.DELETE("/media/:id", a.DeleteMedia)

	g.GET("/capability-types", a.ListCapabilityTypes)
	g.GET("/capability-types/:id", a.GetCapabilityType)
	g.POST("/capability-types", a.CreateCapabilityType)
	g.PUT("/capability-types/:id", a.UpdateCapabilityType)
	g.DELETE("/capability-types/:id", a.DeleteCapabilityType)

	g.GET("/features", a.ListFeatures)
	g.GET("/features/:id", a.GetFeature)
	g.POST("/features", a.CreateFeature)
	g.PUT("/features/:id", a.UpdateFeature)
	g.DELETE("/features/:id", a.DeleteFeature)

	g.GET("/equipment-types", a.ListEquipmentTypes)
	g.GET("/equipment-types/:id", a.GetEquipmentType)
	g.POST("/equipment-types", a.CreateEquipmentType)
	g.PUT("/equipment-types/:id", a.UpdateEquipmentType)
	g.DELETE("/equipment-types/:id", a.DeleteEquipmentType)

	g.GET("/space-types", a.ListSpaceTypes)
	g.GET("/space-types/:id", a.GetSpaceType)
	g.POST("/space-types", a.CreateSpaceType)
	g.PUT("/space-types/:id", a.UpdateSpaceType)
	g.DELETE("/space-types/:id", a.DeleteSpaceType)
}

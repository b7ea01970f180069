package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/454Muscle/DDL-sub000/internal/middleware"
	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/internal/repository"
	"github.com/454Muscle/DDL-sub000/internal/service"
	"github.com/454Muscle/DDL-sub000/pkg/filesize"
)

type DownloadHandler struct {
	catalog    *service.CatalogService
	categories *repository.CategoryRepo
}

func NewDownloadHandler(catalog *service.CatalogService, categories *repository.CategoryRepo) *DownloadHandler {
	return &DownloadHandler{catalog: catalog, categories: categories}
}

// List handles GET /api/downloads
func (h *DownloadHandler) List(c fiber.Ctx) error {
	typeFilter, errMsg := middleware.ValidateDownloadType(fiber.Query[string](c, "type_filter"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	sortBy, errMsg := middleware.ValidateSort(fiber.Query[string](c, "sort_by"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	filter := model.ListFilter{
		Type:     typeFilter,
		Search:   middleware.ValidateSearch(fiber.Query[string](c, "search")),
		Category: fiber.Query[string](c, "category"),
		Tags:     middleware.ParseTags(fiber.Query[string](c, "tags")),
		DateFrom: fiber.Query[string](c, "date_from"),
		DateTo:   fiber.Query[string](c, "date_to"),
	}
	if raw := fiber.Query[string](c, "size_min"); raw != "" {
		if v, ok := filesize.Parse(raw); ok {
			filter.SizeMin = &v
		}
	}
	if raw := fiber.Query[string](c, "size_max"); raw != "" {
		if v, ok := filesize.Parse(raw); ok {
			filter.SizeMax = &v
		}
	}

	page := middleware.ParsePage(fiber.Query[string](c, "page"))
	limit := middleware.ParseLimit(fiber.Query[string](c, "limit"))

	res, err := h.catalog.List(c.Context(), filter, sortBy, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("catalog list failed")
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Top handles GET /api/downloads/top
func (h *DownloadHandler) Top(c fiber.Ctx) error {
	res, err := h.catalog.Top(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("top downloads failed")
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Trending handles GET /api/downloads/trending
func (h *DownloadHandler) Trending(c fiber.Ctx) error {
	res, err := h.catalog.Trending(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("trending downloads failed")
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Increment handles POST /api/downloads/:id/increment and
// POST /api/downloads/:id/track — both count one click.
func (h *DownloadHandler) Increment(c fiber.Ctx) error {
	id := c.Params("id")

	if err := h.catalog.TrackClick(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	Metrics.DownloadClicks.Inc()
	return c.JSON(fiber.Map{"success": true})
}

// SponsoredClick handles POST /api/sponsored/:id/click
func (h *DownloadHandler) SponsoredClick(c fiber.Ctx) error {
	id := c.Params("id")

	if err := h.catalog.TrackSponsoredClick(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Categories handles GET /api/categories?type=X
func (h *DownloadHandler) Categories(c fiber.Ctx) error {
	typeFilter, errMsg := middleware.ValidateDownloadType(fiber.Query[string](c, "type"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	cats, err := h.categories.List(c.Context(), typeFilter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cats)
}

// Tags handles GET /api/tags
func (h *DownloadHandler) Tags(c fiber.Ctx) error {
	limit := middleware.ParseLimit(fiber.Query[string](c, "limit"))

	tags, err := h.catalog.PopularTags(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	if tags == nil {
		tags = []model.TagCount{}
	}
	return c.JSON(tags)
}

// Stats handles GET /api/stats
func (h *DownloadHandler) Stats(c fiber.Ctx) error {
	stats, err := h.catalog.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

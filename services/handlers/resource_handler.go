package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/shared"
)

type ResourceHandler struct {
	resourceSvc ResourceServiceInterface
	catalog     func() *dto.CatalogResponse
}

func NewResourceHandler(resourceSvc ResourceServiceInterface, catalog func() *dto.CatalogResponse) *ResourceHandler {
	return &ResourceHandler{
		resourceSvc: resourceSvc,
		catalog:     catalog,
	}
}

// @Summary List learning resources
// @Tags resources
// @Produce json
// @Param domain query string false "Domain"
// @Param difficulty query string false "Difficulty"
// @Param type query string false "article, video or guide"
// @Success 200 {object} shared.Response{data=[]dto.ResourceResponse}
// @Router /api/v1/resources [get]
func (h *ResourceHandler) ListResources(c *fiber.Ctx) error {
	var filter dto.ResourceFilter
	if err := c.QueryParser(&filter); err != nil {
		return shared.NewBadRequestError(err, "Invalid query")
	}

	if err := filter.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resources, err := h.resourceSvc.ListResources(filter)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resources)
}

// @Summary Curated practice lists
// @Description LeetCode, GeeksForGeeks and article suggestions. Fallback lists are marked and explained in notice.
// @Tags resources
// @Produce json
// @Success 200 {object} shared.Response{data=dto.CuratedResourcesResponse}
// @Router /api/v1/resources/curated [get]
func (h *ResourceHandler) GetCuratedResources(c *fiber.Ctx) error {
	resp, err := h.resourceSvc.GetCuratedResources(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Test catalog
// @Description Domains, levels, test types with durations and badges
// @Tags resources
// @Produce json
// @Success 200 {object} shared.Response{data=dto.CatalogResponse}
// @Router /api/v1/catalog [get]
func (h *ResourceHandler) GetCatalog(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=300")
	return shared.ResponseOK(c, h.catalog())
}

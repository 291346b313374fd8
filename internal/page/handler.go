package page

import (
	"news-cms/internal/domain"
	"news-cms/internal/errors"
	"news-cms/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreatePageRequest struct {
	Title          string  `json:"title" binding:"required,min=1,max=255"`
	Slug           string  `json:"slug" binding:"required,max=255,slug"`
	Status         string  `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
	SEOTitle       *string `json:"seoTitle" binding:"omitempty,max=255"`
	SEODescription *string `json:"seoDescription" binding:"omitempty,max=500"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreatePageRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	page := &domain.Page{
		Title:          form.Title,
		Slug:           form.Slug,
		Status:         form.Status,
		SEOTitle:       form.SEOTitle,
		SEODescription: form.SEODescription,
	}

	if err := h.service.CreatePage(c.Request.Context(), page); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

func (h *Handler) List(c *gin.Context) {
	includeDrafts := c.Query("includeDrafts") == "true"
	page, pageSize := utils.GetPaginationParams(c)

	result, err := h.service.ListPages(c.Request.Context(), includeDrafts, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		c.Error(errors.NotFound("Page not found", nil))
		return
	}

	page, err := h.service.GetPageByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) ShowPublic(c *gin.Context) {
	page, err := h.service.GetPublicPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

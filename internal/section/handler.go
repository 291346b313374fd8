package section

import (
	"bytes"
	"encoding/json"
	"news-cms/internal/domain"
	"news-cms/internal/errors"
	"news-cms/internal/ordering"
	"news-cms/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateSectionRequest struct {
	PageID  string          `json:"pageId" binding:"required,uuid"`
	Type    string          `json:"type" binding:"required,oneof=HERO TEXT IMAGE CTA FAQ"`
	Order   *int            `json:"order" binding:"omitempty,min=0"`
	Content json.RawMessage `json:"content" binding:"required"`
}

type UpdateSectionRequest struct {
	Type    *string         `json:"type" binding:"omitempty,oneof=HERO TEXT IMAGE CTA FAQ"`
	Order   *int            `json:"order" binding:"omitempty,min=0"`
	Content json.RawMessage `json:"content"`
}

type SectionOrder struct {
	ID    string `json:"id" binding:"required,uuid"`
	Order *int   `json:"order" binding:"required,min=0"`
}

type ReorderSectionsRequest struct {
	Sections []SectionOrder `json:"sections" binding:"required,min=1,dive"`
}

type MoveSectionRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// Create appends the section when order is omitted and inserts it at order otherwise.
func (h *Handler) Create(c *gin.Context) {
	var form CreateSectionRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	if !isObject(form.Content) {
		c.Error(errors.UnprocessableEntity("Content must be a JSON object", nil))
		return
	}

	section := &domain.Section{
		PageID:  form.PageID,
		Type:    form.Type,
		Content: datatypes.JSON(form.Content),
	}

	if err := h.service.CreateSection(c.Request.Context(), section, form.Order); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

func (h *Handler) ListByPage(c *gin.Context) {
	pageID, ok := utils.ParseID(c, "pageId")
	if !ok {
		c.Error(errors.NotFound("Page not found", nil))
		return
	}

	sections, err := h.service.ListPageSections(c.Request.Context(), pageID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

func (h *Handler) Show(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		c.Error(errors.NotFound("Section not found", nil))
		return
	}

	section, err := h.service.GetSection(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, section)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		c.Error(errors.NotFound("Section not found", nil))
		return
	}

	var form UpdateSectionRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	changes := Changes{Type: form.Type, Position: form.Order}
	if form.Content != nil {
		if !isObject(form.Content) {
			c.Error(errors.UnprocessableEntity("Content must be a JSON object", nil))
			return
		}
		changes.Content = datatypes.JSON(form.Content)
	}

	section, err := h.service.UpdateSection(c.Request.Context(), id, changes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, section)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		c.Error(errors.NotFound("Section not found", nil))
		return
	}

	if err := h.service.DeleteSection(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Reorder(c *gin.Context) {
	var form ReorderSectionsRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	assignments := make([]ordering.Item, 0, len(form.Sections))
	for _, s := range form.Sections {
		assignments = append(assignments, ordering.Item{ID: s.ID, Order: *s.Order})
	}

	if err := h.service.ReorderSections(c.Request.Context(), assignments); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sections reordered successfully"})
}

func (h *Handler) Move(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		c.Error(errors.NotFound("Section not found", nil))
		return
	}

	var form MoveSectionRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	sections, err := h.service.MoveSection(c.Request.Context(), id, ordering.Direction(form.Direction))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

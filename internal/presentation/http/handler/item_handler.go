package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billstock/backend/internal/application/service"
	"github.com/billstock/backend/internal/presentation/http/dto/request"
	"github.com/billstock/backend/internal/presentation/http/dto/response"
)

// ItemHandler handles stock item catalog HTTP requests
type ItemHandler struct {
	catalogService *service.CatalogService
}

// NewItemHandler creates a new item handler
func NewItemHandler(catalogService *service.CatalogService) *ItemHandler {
	return &ItemHandler{catalogService: catalogService}
}

// List handles listing all stock items
// @Summary List items
// @Tags items
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	items, err := h.catalogService.ListItems(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items retrieved successfully", gin.H{"items": items})
}

// Create handles creating a stock item
// @Summary Create item
// @Tags items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateEntityRequest true "Item fields"
// @Success 201 {object} response.APIResponse
// @Router /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.AddItem(c.Request.Context(), *userID, toFields(req.Fields))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", gin.H{"item": item})
}

// Update handles replacing a stock item's fields
// @Summary Update item
// @Tags items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body request.UpdateEntityRequest true "Item fields"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), *userID, c.Param("id"), toFields(req.Fields))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", gin.H{"item": item})
}

// Delete handles deleting a stock item
// @Summary Delete item
// @Tags items
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} response.APIResponse
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), *userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

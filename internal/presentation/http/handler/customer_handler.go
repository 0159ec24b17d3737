package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/billstock/backend/internal/application/service"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/presentation/http/dto/request"
	"github.com/billstock/backend/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer catalog HTTP requests
type CustomerHandler struct {
	catalogService *service.CatalogService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(catalogService *service.CatalogService) *CustomerHandler {
	return &CustomerHandler{catalogService: catalogService}
}

// List handles listing all customers
// @Summary List customers
// @Tags customers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	customers, err := h.catalogService.ListCustomers(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customers retrieved successfully", gin.H{"customers": customers})
}

// Create handles creating a customer
// @Summary Create customer
// @Tags customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateEntityRequest true "Customer fields"
// @Success 201 {object} response.APIResponse
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
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

	customer, err := h.catalogService.AddCustomer(c.Request.Context(), *userID, toFields(req.Fields))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", gin.H{"customer": customer})
}

// Update handles replacing a customer's fields
// @Summary Update customer
// @Tags customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body request.UpdateEntityRequest true "Customer fields"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
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

	customer, err := h.catalogService.UpdateCustomer(c.Request.Context(), *userID, c.Param("id"), toFields(req.Fields))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", gin.H{"customer": customer})
}

// Delete handles deleting a customer
// @Summary Delete customer
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} response.APIResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.catalogService.DeleteCustomer(c.Request.Context(), *userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// toFields converts submitted field DTOs to domain fields.
func toFields(in []request.EntityField) []entity.Field {
	out := make([]entity.Field, len(in))
	for i, f := range in {
		out[i] = entity.Field{ID: f.ID, Label: f.Label, Value: f.Value}
	}
	return out
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/billstock/backend/internal/application/service"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
	"github.com/billstock/backend/internal/presentation/http/dto/request"
	"github.com/billstock/backend/internal/presentation/http/dto/response"
	"github.com/billstock/backend/pkg/pagination"
)

// BillHandler handles billing HTTP requests
type BillHandler struct {
	billingService *service.BillingService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// Create handles starting a new bill
// @Summary New bill
// @Description Create a queued bill with one blank row and make it active
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Success 201 {object} response.APIResponse
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	bill, err := h.billingService.NewBill(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", gin.H{"bill": bill})
}

// Queue handles listing in-progress bills
// @Summary Bill queue
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /bills/queue [get]
func (h *BillHandler) Queue(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	queue, err := h.billingService.Queue(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Queue retrieved successfully", queue)
}

// Archive handles listing saved bills
// @Summary Bill archive
// @Description List saved bills, newest first
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /bills/archive [get]
func (h *BillHandler) Archive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := paginationParams(c)
	result, err := h.billingService.Archive(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Archive retrieved successfully", result)
}

// Get handles fetching one bill by id
// @Summary Get bill
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), *userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", gin.H{"bill": bill})
}

// Activate handles switching the active bill
// @Summary Activate bill
// @Description Point the workspace at a queued bill
// @Tags bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id}/activate [post]
func (h *BillHandler) Activate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.billingService.SetActiveBill(c.Request.Context(), *userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active bill updated", nil)
}

// UpdateRows handles replacing a queued bill's rows
// @Summary Update bill rows
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body request.UpdateRowsRequest true "Bill rows"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id}/rows [put]
func (h *BillHandler) UpdateRows(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rows := make([]entity.BillRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = entity.BillRow{ID: r.ID, Name: r.Name, Price: r.Price, Qty: r.Qty}
	}

	bill, err := h.billingService.UpdateRows(c.Request.Context(), *userID, c.Param("id"), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill rows updated", gin.H{"bill": bill})
}

// SetCustomer handles setting or clearing a queued bill's customer
// @Summary Set bill customer
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body request.SetCustomerRequest true "Customer reference"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id}/customer [put]
func (h *BillHandler) SetCustomer(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billingService.SetBillCustomer(c.Request.Context(), *userID, c.Param("id"), req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill customer updated", gin.H{"bill": bill})
}

// Save handles archiving a queued bill
// @Summary Save bill
// @Description Archive a queued bill, freezing its total and recording a payment
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body request.SaveBillRequest true "Save data"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /bills/{id}/save [post]
func (h *BillHandler) Save(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SaveBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billingService.SaveBill(c.Request.Context(), *userID, c.Param("id"), toPaymentInput(req.Payment))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill saved successfully", gin.H{"bill": bill})
}

// AddPayment handles recording a payment against an archived bill
// @Summary Add payment
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body request.PaymentRequest true "Payment"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /bills/{id}/payments [post]
func (h *BillHandler) AddPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billingService.AddPayment(c.Request.Context(), *userID, c.Param("id"), toPaymentInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", gin.H{"bill": bill})
}

// Edit handles moving an archived bill back into the queue
// @Summary Edit bill
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id}/edit [post]
func (h *BillHandler) Edit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	bill, err := h.billingService.EditBill(c.Request.Context(), *userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill moved to queue for editing", gin.H{"bill": bill})
}

// DeleteQueued handles discarding an in-progress bill
// @Summary Delete queued bill
// @Tags bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Success 204
// @Failure 404 {object} response.APIResponse
// @Router /bills/queue/{id} [delete]
func (h *BillHandler) DeleteQueued(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.billingService.DeleteFromQueue(c.Request.Context(), *userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Delete handles deleting an archived bill
// @Summary Delete archived bill
// @Tags bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Success 204
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.billingService.DeleteBill(c.Request.Context(), *userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SyncStatus handles reporting sync health
// @Summary Sync status
// @Tags sync
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sync/status [get]
func (h *BillHandler) SyncStatus(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	status, err := h.billingService.SyncStatus(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync status retrieved", gin.H{"status": status})
}

func toPaymentInput(req *request.PaymentRequest) *service.PaymentInput {
	if req == nil {
		return nil
	}
	return &service.PaymentInput{
		Amount: req.Amount,
		Mode:   enum.PaymentMode(req.Mode),
		Note:   req.Note,
	}
}

func paginationParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

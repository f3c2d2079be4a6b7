package handler

import (
	billingapp "github.com/billmate/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SalesBillHandler handles sales bill API endpoints
type SalesBillHandler struct {
	BaseHandler
	billService *billingapp.SalesBillService
}

// NewSalesBillHandler creates a new SalesBillHandler
func NewSalesBillHandler(billService *billingapp.SalesBillService) *SalesBillHandler {
	return &SalesBillHandler{billService: billService}
}

// RegisterRoutes registers sales bill routes on the given group
func (h *SalesBillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.POST("", h.Create)
		bills.GET("", h.List)
		bills.GET(":id", h.Get)
		bills.GET("number/:number", h.GetByNumber)
		bills.PUT(":id", h.Update)
		bills.POST(":id/status", h.TransitionStatus)
		bills.DELETE(":id", h.Delete)
	}
}

// Create creates and prices a new sales bill
func (h *SalesBillHandler) Create(c *gin.Context) {
	var req billingapp.CreateSalesBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, bill)
}

// Get retrieves a bill by ID with its items
func (h *SalesBillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bill)
}

// GetByNumber retrieves a bill by its bill number
func (h *SalesBillHandler) GetByNumber(c *gin.Context) {
	bill, err := h.billService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bill)
}

// List retrieves bills with filtering and pagination
func (h *SalesBillHandler) List(c *gin.Context) {
	var filter billingapp.SalesBillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.billService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update edits a bill; an item list replaces the bill's items
func (h *SalesBillHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billingapp.UpdateSalesBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bill)
}

// TransitionStatus moves a bill through its document state machine
func (h *SalesBillHandler) TransitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billingapp.TransitionBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.TransitionStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bill)
}

// Delete removes a bill without collections on record
func (h *SalesBillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	billingapp "github.com/billmate/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CollectionHandler handles collection API endpoints
type CollectionHandler struct {
	BaseHandler
	collectionService *billingapp.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *billingapp.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// RegisterRoutes registers collection routes on the given group
func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	collections := rg.Group("/collections")
	{
		collections.POST("", h.Create)
		collections.GET("", h.List)
		collections.GET(":id", h.Get)
		collections.PUT(":id", h.Update)
		collections.DELETE(":id", h.Delete)
	}
}

// Create records a collection and reconciles it against the linked bill
func (h *CollectionHandler) Create(c *gin.Context) {
	var req billingapp.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	collection, err := h.collectionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, collection)
}

// Get retrieves a collection by ID
func (h *CollectionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collection ID")
		return
	}

	collection, err := h.collectionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, collection)
}

// List retrieves collections with filtering and pagination
func (h *CollectionHandler) List(c *gin.Context) {
	var filter billingapp.CollectionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.collectionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update edits a collection and re-reconciles the ledger
func (h *CollectionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collection ID")
		return
	}

	var req billingapp.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	collection, err := h.collectionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, collection)
}

// Delete removes a collection, reversing its payment from the linked bill
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid collection ID")
		return
	}

	if err := h.collectionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

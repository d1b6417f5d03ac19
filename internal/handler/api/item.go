package api

import (
	"net/http"

	reqdto "shareit/internal/handler/dto/request"
	resdto "shareit/internal/handler/dto/response"
	"shareit/internal/handler/httperr"
	"shareit/internal/handler/middleware"
	"shareit/internal/pkg/errs"
	"shareit/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemHandler struct {
	itemUseCase usecase.ItemUseCase
}

func NewItemHandler(itemUseCase usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

// @Summary Create item
// @Description Register a new item owned by the caller
// @Tags items
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param request body reqdto.CreateItemRequest true "Item"
// @Success 201 {object} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.CreateItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params := usecase.CreateItemParams{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
	}

	rm, err := h.itemUseCase.Create(c.Request.Context(), params, userID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		case errs.Is(err, usecase.ErrInvalidItem):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromItemRM(rm))
}

// @Summary Update item
// @Description Patch an item's name, description or availability; owner only
// @Tags items
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param itemId path string true "Item ID"
// @Param request body reqdto.UpdateItemRequest true "Fields to change"
// @Success 200 {object} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{itemId} [patch]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID format", nil)
		return
	}

	var req reqdto.UpdateItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params := usecase.UpdateItemParams{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	}

	rm, err := h.itemUseCase.Update(c.Request.Context(), itemID, params, userID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		case errs.Is(err, usecase.ErrInvalidItem):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemRM(rm))
}

// @Summary Get item
// @Description Get an item with comments; the owner also sees last/next booking summaries
// @Tags items
// @Produce json
// @Param X-Sharer-User-Id header string false "Caller user ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} resdto.ItemDetailResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{itemId} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID format", nil)
		return
	}

	var callerID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		callerID = &userID
	}

	rm, err := h.itemUseCase.GetByID(c.Request.Context(), itemID, callerID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemDetailRM(rm))
}

// @Summary Get caller's items
// @Description List all items owned by the caller with booking summaries and comments
// @Tags items
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Success 200 {array} resdto.ItemDetailResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items [get]
func (h *ItemHandler) GetOwnerItems(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	rms, err := h.itemUseCase.GetAllByOwner(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemDetailRMs(rms))
}

// @Summary Search items
// @Description Case-insensitive substring search over available items; blank text returns an empty list
// @Tags items
// @Produce json
// @Param text query string true "Search text"
// @Success 200 {array} resdto.ItemResponse
// @Router /items/search [get]
func (h *ItemHandler) SearchItems(c *gin.Context) {
	rms, err := h.itemUseCase.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemRMs(rms))
}

// @Summary Comment on item
// @Description Leave a comment; allowed only after a completed approved rental
// @Tags items
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param itemId path string true "Item ID"
// @Param request body reqdto.CreateCommentRequest true "Comment"
// @Success 200 {object} resdto.CommentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{itemId}/comment [post]
func (h *ItemHandler) AddComment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID format", nil)
		return
	}

	var req reqdto.CreateCommentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	rm, err := h.itemUseCase.AddComment(c.Request.Context(), itemID, userID, req.Text)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		case errs.Is(err, usecase.ErrInvalidComment):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid comment", nil)
		case errs.Is(err, usecase.ErrRentalNotCompleted):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Commenting requires a completed rental of this item", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCommentRM(rm))
}

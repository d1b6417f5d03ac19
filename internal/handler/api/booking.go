package api

import (
	"context"
	"net/http"
	"strconv"

	"shareit/internal/domain/booking"
	reqdto "shareit/internal/handler/dto/request"
	resdto "shareit/internal/handler/dto/response"
	"shareit/internal/handler/httperr"
	"shareit/internal/handler/middleware"
	"shareit/internal/pkg/errs"
	"shareit/internal/usecase"
	"shareit/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary Create booking
// @Description Request a booking for an item; it starts in the WAITING state
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params := usecase.CreateBookingParams{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	}

	rm, err := h.bookingUseCase.Create(c.Request.Context(), params, userID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		case errs.Is(err, usecase.ErrItemNotFound), errs.Is(err, usecase.ErrOwnItemBooking):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		case errs.Is(err, usecase.ErrInvalidPeriod):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Start date must be before end date", nil)
		case errs.Is(err, usecase.ErrItemUnavailable):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Item is not available for booking", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingRM(rm))
}

// @Summary Decide on booking
// @Description Approve or reject a waiting booking; only the item owner may decide
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param bookingId path string true "Booking ID"
// @Param approved query bool true "true approves, false rejects"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{bookingId} [patch]
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Query parameter 'approved' must be true or false", nil)
		return
	}

	rm, err := h.bookingUseCase.Approve(c.Request.Context(), bookingID, userID, approved)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errs.Is(err, usecase.ErrNotItemOwner):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Only the item owner can approve or reject a booking", nil)
		case errs.Is(err, usecase.ErrBookingNotWaiting):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking has already been decided", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(rm))
}

// @Summary Get booking
// @Description Get a booking; visible to its booker and the item owner only
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{bookingId} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	rm, err := h.bookingUseCase.GetByID(c.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(rm))
}

// @Summary Get caller's bookings
// @Description List bookings made by the caller, newest start first
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param state query string false "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED" default(ALL)
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	h.listBookings(c, h.bookingUseCase.GetUserBookings)
}

// @Summary Get bookings for caller's items
// @Description List bookings for items the caller owns, newest start first
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller user ID"
// @Param state query string false "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED" default(ALL)
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/owner [get]
func (h *BookingHandler) GetOwnerBookings(c *gin.Context) {
	h.listBookings(c, h.bookingUseCase.GetOwnerBookings)
}

func (h *BookingHandler) listBookings(
	c *gin.Context,
	list func(ctx context.Context, userID uuid.UUID, state booking.State) ([]*readmodel.BookingRM, error),
) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("caller id missing from context"), "Internal server error", nil)
		return
	}

	state, err := booking.ParseState(c.Query("state"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"Unknown state: "+c.Query("state"), nil)
		return
	}

	rms, err := list(c.Request.Context(), userID, state)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		case errs.Is(err, usecase.ErrUnsupportedState):
			httperr.AbortWithError(c, http.StatusBadRequest, err,
				"Unsupported state: "+c.Query("state"), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRMs(rms))
}

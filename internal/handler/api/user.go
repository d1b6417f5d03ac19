package api

import (
	"net/http"

	reqdto "shareit/internal/handler/dto/request"
	resdto "shareit/internal/handler/dto/response"
	"shareit/internal/handler/httperr"
	"shareit/internal/pkg/errs"
	"shareit/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
}

func NewUserHandler(userUseCase usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// @Summary Create user
// @Description Register a user; the email must be unique
// @Tags users
// @Accept json
// @Produce json
// @Param request body reqdto.CreateUserRequest true "User"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req reqdto.CreateUserRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	rm, err := h.userUseCase.Create(c.Request.Context(), usecase.CreateUserParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrEmailConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Email is already in use", nil)
		case errs.Is(err, usecase.ErrInvalidUser):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromUserRM(rm))
}

// @Summary Update user
// @Description Patch a user's name or email
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body reqdto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /users/{userId} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	var req reqdto.UpdateUserRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	rm, err := h.userUseCase.Update(c.Request.Context(), userID, usecase.UpdateUserParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		case errs.Is(err, usecase.ErrEmailConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Email is already in use", nil)
		case errs.Is(err, usecase.ErrInvalidUser):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserRM(rm))
}

// @Summary Get user
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{userId} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	rm, err := h.userUseCase.GetByID(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserRM(rm))
}

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} resdto.UserResponse
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	rms, err := h.userUseCase.GetAll(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserRMs(rms))
}

// @Summary Delete user
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{userId} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid user ID format", nil)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), userID); err != nil {
		switch {
		case errs.Is(err, usecase.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

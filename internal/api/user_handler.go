package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-cms/inkwell-api/internal/api/middleware"
	"github.com/inkwell-cms/inkwell-api/internal/api/shared"
	"github.com/inkwell-cms/inkwell-api/internal/domain"
	"github.com/inkwell-cms/inkwell-api/internal/store"
)

// RegisterUserRequest represents the request body for creating the profile
// of the authenticated identity.
type RegisterUserRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	ProfileImageURL string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}

// UserResponse represents the response data for a user profile.
type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserHandler handles user profile HTTP requests.
type UserHandler struct {
	userStore store.UserStore
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userStore store.UserStore) *UserHandler {
	return &UserHandler{
		userStore: userStore,
		validator: validator.New(),
	}
}

// Register handles POST /api/users requests. It creates the profile row
// for the authenticated token subject; identity itself is established by
// the external provider, so there is no credential handling here.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req RegisterUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(userID, req.Email)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user.Username = req.Username
	user.ProfileImageURL = req.ProfileImageURL

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if store.IsDuplicateError(err) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email or username already in use")
			return
		}
		slog.Error("Failed to create user", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toUserResponse(user))
}

// GetMe handles GET /api/users/me requests.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("Failed to get user", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toUserResponse(user))
}

// DeleteMe handles DELETE /api/users/me requests. Content owned by the
// user is removed by the database cascade.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.userStore.Delete(r.Context(), userID); err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("Failed to delete user", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toUserResponse maps a domain User onto the API response shape.
func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:              user.ID.String(),
		Email:           user.Email,
		Username:        user.Username,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

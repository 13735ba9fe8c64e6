package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamflow/teamflow-api/internal/core/ports"
)

// UserHandler exposes the user directory and self-service profile updates.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// List returns every registered user, for member pickers and invitations.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  dataEnvelope{data=[]userResponse}
// @Failure      401  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toUserListResponse(users))
}

// UpdateMe applies partial changes to the authenticated user's profile.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  dataEnvelope{data=userResponse}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, ports.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toUserResponse(user))
}

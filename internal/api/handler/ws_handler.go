package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/teamflow/teamflow-api/internal/core/domain"
	"github.com/teamflow/teamflow-api/internal/core/ports"
	"github.com/teamflow/teamflow-api/internal/realtime"
)

// WSHandler upgrades authenticated requests to websocket connections and hands
// them to the hub. Room joins are re-checked against project membership, so a
// socket can never subscribe to a board its user cannot read.
type WSHandler struct {
	hub      *realtime.Hub
	projects ports.ProjectRepository
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(hub *realtime.Hub, projects ports.ProjectRepository, allowedOrigin string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		projects: projects,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
		log: log,
	}
}

// Serve handles GET /ws. Runs behind the Auth middleware; the session cookie
// travels with the upgrade request like any other.
//
// @Summary      Open the realtime event stream
// @Tags         realtime
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *WSHandler) Serve(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	realtime.NewClient(h.hub, conn, userID, h.authorizeJoin, h.log)
	return nil
}

func (h *WSHandler) authorizeJoin(ctx context.Context, projectID, userID string) error {
	project, err := h.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.IsMember(userID) {
		return domain.ErrForbidden
	}
	return nil
}

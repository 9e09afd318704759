package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

const snapshotTimeout = 2 * time.Second

// RoomHandlers serves REST views of the room directory.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{hub: hub, log: logger}
}

// RoomResponse is one row of the room listing.
type RoomResponse struct {
	Name     string `json:"name"`
	Members  int    `json:"members"`
	Password bool   `json:"password"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// List returns the current directory snapshot.
// GET /api/rooms
func (h *RoomHandlers) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), snapshotTimeout)
	defer cancel()

	rooms, err := h.hub.Snapshot(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("room directory snapshot")
		c.JSON(stdhttp.StatusServiceUnavailable, ErrorResponse{Error: "coordinator unavailable"})
		return
	}

	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomResponse{
			Name:     room.Name,
			Members:  room.Members,
			Password: room.Locked,
		})
	}
	c.JSON(stdhttp.StatusOK, out)
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"swimcraft/app/internal/domain"
)

// CoachHandler serves the bundled coach catalog.
type CoachHandler struct {
	coaches []domain.Coach
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coaches []domain.Coach) *CoachHandler {
	return &CoachHandler{coaches: coaches}
}

// CoachResponse is the DTO for one catalog entry.
type CoachResponse struct {
	Name          string     `json:"name"`
	Level         string     `json:"level"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`
	ClubAbbr      string     `json:"clubAbbr,omitempty"`
	ClubName      string     `json:"clubName,omitempty"`
	LMSC          string     `json:"lmsc,omitempty"`
}

// ListCoaches godoc
// @Summary List coaches
// @Description Returns the certified-coach catalog loaded at startup.
// @Tags Coaches
// @Produce json
// @Success 200 {array} CoachResponse
// @Router /coaches [get]
func (h *CoachHandler) ListCoaches(c *gin.Context) {
	responses := make([]CoachResponse, len(h.coaches))
	for i, coach := range h.coaches {
		responses[i] = CoachResponse{
			Name:     coach.Name,
			Level:    coach.Level,
			ClubAbbr: coach.ClubAbbr,
			ClubName: coach.ClubName,
			LMSC:     coach.LMSC,
		}
		if !coach.DateCompleted.IsZero() {
			d := coach.DateCompleted
			responses[i].DateCompleted = &d
		}
	}
	c.JSON(http.StatusOK, responses)
}

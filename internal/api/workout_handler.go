package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"swimcraft/app/internal/coach"
	"swimcraft/app/internal/domain"
	"swimcraft/app/internal/export"
	"swimcraft/app/internal/reconcile"
	"swimcraft/app/internal/scheduler"
	"swimcraft/app/internal/service"
)

// WorkoutHandler holds the workout-facing service dependencies.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	exportService  service.ExportService
	coaches        []domain.Coach
	logger         *zap.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, exportService service.ExportService, coaches []domain.Coach, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		exportService:  exportService,
		coaches:        coaches,
		logger:         logger,
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// SegmentPayload is the wire form of one segment; optional fields stay
// optional so an in-progress segment round-trips unchanged.
type SegmentPayload struct {
	Yards  *float64 `json:"yards,omitempty" binding:"omitempty,gte=0"`
	Type   string   `json:"type"`
	Amount *int     `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Stroke string   `json:"stroke"`
	Time   *float64 `json:"time,omitempty" binding:"omitempty,gte=0"`
}

// CreateWorkoutRequest defines the expected JSON for creating a workout.
type CreateWorkoutRequest struct {
	Name      string           `json:"name" binding:"required"`
	CoachName string           `json:"coachName" binding:"omitempty"`
	Source    string           `json:"source" binding:"omitempty"`
	Date      *time.Time       `json:"date" binding:"omitempty"`
	WarmUp    []SegmentPayload `json:"warmUp"`
	MainSet   []SegmentPayload `json:"mainSet"`
	CoolDown  []SegmentPayload `json:"coolDown"`
}

// ScheduleWorkoutRequest defines the JSON for the scheduler path.
type ScheduleWorkoutRequest struct {
	Name         string     `json:"name" binding:"required"`
	DistanceGoal float64    `json:"distanceGoal" binding:"gte=0"`
	Strokes      []string   `json:"strokes" binding:"omitempty"`
	ScheduledAt  *time.Time `json:"scheduledAt" binding:"omitempty"`
}

// DeleteWorkoutsRequest carries the id set to remove from both stores.
type DeleteWorkoutsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// WorkoutResponse is the DTO for returning workout details. Distance and
// duration are the authoritative aggregates for the entry, which for
// health-mirrored workouts come from the health store rather than being
// recomputed from segments.
type WorkoutResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	CoachName            string           `json:"coachName,omitempty"`
	Distance             float64          `json:"distance"`
	Duration             float64          `json:"duration"`
	Strokes              []string         `json:"strokes,omitempty"`
	EstimatedCalories    float64          `json:"estimatedCalories"`
	CreatedViaWorkoutKit bool             `json:"createdViaWorkoutKit"`
	Source               string           `json:"source,omitempty"`
	Date                 time.Time        `json:"date"`
	WarmUp               []SegmentPayload `json:"warmUp"`
	MainSet              []SegmentPayload `json:"mainSet"`
	CoolDown             []SegmentPayload `json:"coolDown"`
}

// ExportResponse returns the download URL for a rendered export.
type ExportResponse struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// MonthlySummaryResponse is the DTO for the monthly yardage summary.
type MonthlySummaryResponse struct {
	Month      string                 `json:"month"`
	TotalYards float64                `json:"totalYards"`
	Days       []DailyYardageResponse `json:"days"`
}

// DailyYardageResponse is one day's total within a monthly summary.
type DailyYardageResponse struct {
	Date  string  `json:"date"`
	Yards float64 `json:"yards"`
}

// MapMergedToResponse converts a reconciled entry to the response DTO.
func MapMergedToResponse(entry reconcile.Merged) WorkoutResponse {
	w := entry.Workout
	resp := WorkoutResponse{
		ID:                   w.ID.String(),
		Name:                 w.Name,
		Distance:             entry.Distance,
		Duration:             entry.Duration,
		Strokes:              entry.Strokes,
		EstimatedCalories:    entry.EstimatedCalories,
		CreatedViaWorkoutKit: w.CreatedViaWorkoutKit,
		Source:               w.Source,
		Date:                 w.Date,
		WarmUp:               mapSegmentsToPayload(w.WarmUp),
		MainSet:              mapSegmentsToPayload(w.MainSet),
		CoolDown:             mapSegmentsToPayload(w.CoolDown),
	}
	if w.Coach != nil {
		resp.CoachName = w.Coach.Name
	}
	return resp
}

func mapSegmentsToPayload(segments []domain.Segment) []SegmentPayload {
	payload := make([]SegmentPayload, len(segments))
	for i, s := range segments {
		payload[i] = SegmentPayload{
			Yards:  s.Yards,
			Type:   s.Type,
			Amount: s.Amount,
			Stroke: s.Stroke,
			Time:   s.Time,
		}
	}
	return payload
}

func mapPayloadToSegments(payload []SegmentPayload) []domain.Segment {
	segments := make([]domain.Segment, len(payload))
	for i, p := range payload {
		segments[i] = domain.NewSegment(p.Yards, p.Type, p.Amount, p.Stroke, p.Time)
	}
	return segments
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Create a workout
// @Description Validates and saves a workout to the persisted and health stores.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Validation failed"
// @Failure 502 {object} gin.H "Partial write"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	w := domain.Workout{
		ID:       uuid.New(),
		Name:     req.Name,
		Coach:    h.resolveCoach(req.CoachName),
		WarmUp:   mapPayloadToSegments(req.WarmUp),
		MainSet:  mapPayloadToSegments(req.MainSet),
		CoolDown: mapPayloadToSegments(req.CoolDown),
		Source:   req.Source,
		Date:     date,
	}

	if err := h.workoutService.SaveWorkout(c.Request.Context(), w); err != nil {
		h.handleServiceError(c, err)
		return
	}

	entries := reconcile.FromPersisted([]domain.Workout{w})
	c.JSON(http.StatusCreated, MapMergedToResponse(entries[0]))
}

// ListWorkouts godoc
// @Summary List workouts
// @Description Returns the reconciled, deduplicated workout list.
// @Tags Workouts
// @Produce json
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	merged, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	responses := make([]WorkoutResponse, len(merged))
	for i, entry := range merged {
		responses[i] = MapMergedToResponse(entry)
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteWorkouts godoc
// @Summary Delete workouts
// @Description Removes the workouts from both stores by id set.
// @Tags Workouts
// @Accept json
// @Success 204 "Deleted"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [delete]
func (h *WorkoutHandler) DeleteWorkouts(c *gin.Context) {
	var req DeleteWorkoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workout id: " + raw})
			return
		}
		ids = append(ids, id)
	}

	if err := h.workoutService.DeleteWorkouts(c.Request.Context(), ids); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.exportService.CleanupExports(c.Request.Context(), ids)

	c.Status(http.StatusNoContent)
}

// GenerateRandomWorkout godoc
// @Summary Generate a random workout
// @Description Builds a random workout from the fixed option tables and saves it.
// @Tags Workouts
// @Produce json
// @Success 201 {object} WorkoutResponse
// @Router /workouts/random [post]
func (h *WorkoutHandler) GenerateRandomWorkout(c *gin.Context) {
	w, err := h.workoutService.GenerateRandomWorkout(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	entries := reconcile.FromPersisted([]domain.Workout{w})
	c.JSON(http.StatusCreated, MapMergedToResponse(entries[0]))
}

// ScheduleWorkout godoc
// @Summary Schedule a workout
// @Description Creates a distance-goal workout through the scheduler integration.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param plan body ScheduleWorkoutRequest true "Plan details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Validation failed"
// @Router /workouts/scheduled [post]
func (h *WorkoutHandler) ScheduleWorkout(c *gin.Context) {
	var req ScheduleWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	plan := scheduler.Plan{
		Name:         req.Name,
		DistanceGoal: req.DistanceGoal,
		Strokes:      req.Strokes,
	}
	if req.ScheduledAt != nil {
		plan.ScheduledAt = *req.ScheduledAt
	}

	w, err := h.workoutService.ScheduleWorkout(c.Request.Context(), plan)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := MapMergedToResponse(reconcile.Merged{
		Workout:           w,
		Distance:          req.DistanceGoal,
		Strokes:           req.Strokes,
		EstimatedCalories: req.DistanceGoal * domain.CaloriesPerYard,
	})
	c.JSON(http.StatusCreated, resp)
}

// ExportWorkout godoc
// @Summary Export a workout
// @Description Renders a workout summary and returns a presigned download URL.
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Param format query string false "pdf or text" default(pdf)
// @Success 200 {object} ExportResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/export [get]
func (h *WorkoutHandler) ExportWorkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workout id"})
		return
	}

	format := export.Format(c.DefaultQuery("format", string(export.FormatPDF)))
	if format != export.FormatPDF && format != export.FormatText {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
		return
	}

	url, err := h.exportService.ExportWorkout(c.Request.Context(), id, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExportResponse{URL: url, Format: string(format)})
}

// MonthlySummary godoc
// @Summary Monthly yardage summary
// @Description Totals distance for one calendar month, bucketed per day.
// @Tags Summary
// @Produce json
// @Param month query string false "Month as YYYY-MM; defaults to the current month"
// @Success 200 {object} MonthlySummaryResponse
// @Router /summary/monthly [get]
func (h *WorkoutHandler) MonthlySummary(c *gin.Context) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, expected YYYY-MM"})
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}

	summary, err := h.workoutService.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := MonthlySummaryResponse{
		Month:      time.Date(summary.Year, summary.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		TotalYards: summary.TotalYards,
		Days:       make([]DailyYardageResponse, len(summary.Days)),
	}
	for i, day := range summary.Days {
		resp.Days[i] = DailyYardageResponse{
			Date:  day.Date.Format("2006-01-02"),
			Yards: day.Yards,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// resolveCoach looks the name up in the catalog; an unknown name still
// yields a minimal coach record so the association is not silently lost.
func (h *WorkoutHandler) resolveCoach(name string) *domain.Coach {
	if name == "" {
		return nil
	}
	if found := coach.FindByName(h.coaches, name); found != nil {
		return found
	}
	return &domain.Coach{Name: name, Level: "Level 1"}
}

func (h *WorkoutHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrWorkoutNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Workout not found"})
	case errors.Is(err, service.ErrPartialWrite):
		// The persisted write stuck; the caller should retry the save to
		// bring the health store back in line.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

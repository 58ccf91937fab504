package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/adherence"
	"peakform/coach-app/internal/service"
)

// ClientHandler holds the client service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request Structs ---

type SetLogRequest struct {
	ExerciseID string   `json:"exerciseId" binding:"required"`
	SetNumber  int      `json:"setNumber" binding:"required,min=1"`
	Weight     *float64 `json:"weight"`
	Reps       *int     `json:"reps"`
}

type RecordCompletionRequest struct {
	WorkoutID     string          `json:"workoutId" binding:"required"`
	ScheduledDate string          `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	Sets          []SetLogRequest `json:"sets"`
}

type CorrectSetsRequest struct {
	Sets []SetLogRequest `json:"sets" binding:"required,min=1"`
}

type PhotoUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// --- Handler Methods ---

// GetSchedule returns the client's projected schedule across active
// enrollments. Accepts an optional tz query parameter (IANA name).
func (h *ClientHandler) GetSchedule(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	view, err := h.clientService.GetSchedule(c.Request.Context(), clientID, c.Query("tz"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build schedule")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStreak returns the client's current and longest adherence streak.
func (h *ClientHandler) GetStreak(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	view, err := h.clientService.GetStreak(c.Request.Context(), clientID, c.Query("tz"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute streak")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetTonnage returns total weight moved over the requested period
// (day, week, month, year).
func (h *ClientHandler) GetTonnage(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	period := adherence.Period(c.DefaultQuery("period", string(adherence.PeriodWeek)))
	view, err := h.clientService.GetTonnage(c.Request.Context(), clientID, c.Query("tz"), period)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute tonnage")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDashboard returns the aggregated progress dashboard.
func (h *ClientHandler) GetDashboard(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	view, err := h.clientService.GetDashboard(c.Request.Context(), clientID, c.Query("tz"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, view)
}

// RecordCompletion marks a workout done and stores the performed sets.
// Resubmissions for the same workout and date replace the earlier record.
func (h *ClientHandler) RecordCompletion(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req RecordCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	sets, err := mapSetInputs(req.Sets)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	completion, err := h.clientService.RecordCompletion(c.Request.Context(), clientID, service.CompletionInput{
		WorkoutID:     workoutID,
		ScheduledDate: req.ScheduledDate,
		Sets:          sets,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotEnrolled):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSetLogsNotSaved):
			// The completion itself stands; the client should resubmit.
			abortWithError(c, http.StatusBadGateway, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record completion")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "completionId": completion.ID.Hex()})
}

// CorrectSets overwrites weight/reps on already-logged sets.
func (h *ClientHandler) CorrectSets(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	completionID, err := primitive.ObjectIDFromHex(c.Param("completionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completion ID format")
		return
	}

	var req CorrectSetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	corrections, err := mapSetInputs(req.Sets)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.clientService.CorrectSets(c.Request.Context(), clientID, completionID, corrections); err != nil {
		if errors.Is(err, service.ErrCompletionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to correct sets")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestPhotoUploadURL returns a presigned URL for a progress photo upload.
func (h *ClientHandler) RequestPhotoUploadURL(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.clientService.RequestPhotoUploadURL(c.Request.Context(), clientID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUploadURLError) {
			abortWithError(c, http.StatusBadGateway, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload records the metadata after a successful upload.
func (h *ClientHandler) ConfirmPhotoUpload(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	photo, err := h.clientService.ConfirmPhotoUpload(c.Request.Context(), clientID, req.ObjectKey, req.FileName, req.Size, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to confirm photo upload")
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// GetProgressPhotos lists recent photos with temporary download URLs.
func (h *ClientHandler) GetProgressPhotos(c *gin.Context) {
	clientID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	photos, err := h.clientService.GetProgressPhotos(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list progress photos")
		return
	}
	c.JSON(http.StatusOK, photos)
}

func mapSetInputs(reqs []SetLogRequest) ([]service.SetInput, error) {
	sets := make([]service.SetInput, 0, len(reqs))
	for _, r := range reqs {
		exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
		if err != nil {
			return nil, errors.New("invalid exercise ID format in sets")
		}
		sets = append(sets, service.SetInput{
			ExerciseID: exerciseID,
			SetNumber:  r.SetNumber,
			Weight:     r.Weight,
			Reps:       r.Reps,
		})
	}
	return sets, nil
}

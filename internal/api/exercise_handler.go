package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=Novice Medium Advanced"`
	VideoURL    string `json:"videoUrl" binding:"omitempty,url"`
	ExternalID  string `json:"externalId"`
}

type ExerciseResponse struct {
	ID          string    `json:"id"`
	CoachID     string    `json:"coachId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MuscleGroup string    `json:"muscleGroup,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	ExternalID  string    `json:"externalId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// --- Handler Methods ---

// CreateExercise adds an exercise to the coach's library.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), coachID,
		req.Name, req.Description, req.MuscleGroup, req.Difficulty, req.VideoURL, req.ExternalID)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetCoachExercises lists the coach's exercise library.
func (h *ExerciseHandler) GetCoachExercises(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.GetExercisesByCoach(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetExerciseByID returns a single exercise.
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch exercise")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise updates an exercise owned by the coach.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), coachID, exerciseID,
		req.Name, req.Description, req.MuscleGroup, req.Difficulty, req.VideoURL, req.ExternalID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes an exercise owned by the coach.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), coachID, exerciseID); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// LookupExternalID resolves an exercise name to its external catalog ID.
func (h *ExerciseHandler) LookupExternalID(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'name' is required")
		return
	}

	externalID, err := h.exerciseService.LookupExternalID(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve exercise")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "externalId": externalID})
}

// MapExerciseToResponse converts a domain Exercise to its DTO.
func MapExerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:          exercise.ID.Hex(),
		CoachID:     exercise.CoachID.Hex(),
		Name:        exercise.Name,
		Description: exercise.Description,
		MuscleGroup: exercise.MuscleGroup,
		Difficulty:  exercise.Difficulty,
		VideoURL:    exercise.VideoURL,
		ExternalID:  exercise.ExternalID,
		CreatedAt:   exercise.CreatedAt,
	}
}

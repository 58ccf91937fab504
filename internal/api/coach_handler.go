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

// CoachHandler holds the coach service dependency.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- Request/Response Structs ---

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateProgramRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"durationWeeks" binding:"omitempty,min=1"`
}

type ProgramResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DurationWeeks int       `json:"durationWeeks"`
	CreatedAt     time.Time `json:"createdAt"`
}

type AddWorkoutDefinitionRequest struct {
	Name            string  `json:"name" binding:"required"`
	WeekNumber      int     `json:"weekNumber" binding:"omitempty,min=1"`
	DayOfWeek       *int    `json:"dayOfWeek"` // 0 (Sunday) - 6 (Saturday), absent = unscheduled
	Sequence        int     `json:"sequence"`
	ParentWorkoutID *string `json:"parentWorkoutId"`
	Notes           string  `json:"notes"`
}

type WorkoutDefinitionResponse struct {
	ID              string  `json:"id"`
	ProgramID       string  `json:"programId"`
	Name            string  `json:"name"`
	WeekNumber      int     `json:"weekNumber"`
	DayOfWeek       *int    `json:"dayOfWeek,omitempty"`
	Sequence        int     `json:"sequence"`
	ParentWorkoutID *string `json:"parentWorkoutId,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type EnrollClientRequest struct {
	ClientID      string `json:"clientId" binding:"required"`
	ProgramID     string `json:"programId" binding:"required"`
	StartDate     string `json:"startDate" binding:"required"` // YYYY-MM-DD
	DurationWeeks int    `json:"durationWeeks" binding:"omitempty,min=1"`
}

type EnrollmentResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	ProgramID     string    `json:"programId"`
	StartDate     time.Time `json:"startDate"`
	DurationWeeks int       `json:"durationWeeks,omitempty"`
	IsActive      bool      `json:"isActive"`
}

// --- Handler Methods ---

// AddClientByEmail attaches an existing client account to the coach.
func (h *CoachHandler) AddClientByEmail(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), coachID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole), errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the coach's clients.
func (h *CoachHandler) GetManagedClients(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	clients, err := h.coachService.GetManagedClients(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	responses := make([]UserResponse, len(clients))
	for i := range clients {
		responses[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateProgram creates a new training program for the coach.
func (h *CoachHandler) CreateProgram(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.coachService.CreateProgram(c.Request.Context(), coachID, req.Name, req.Description, req.DurationWeeks)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create program")
		return
	}

	c.JSON(http.StatusCreated, MapProgramToResponse(program))
}

// GetPrograms lists the coach's programs.
func (h *CoachHandler) GetPrograms(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	programs, err := h.coachService.GetPrograms(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs")
		return
	}

	responses := make([]ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = MapProgramToResponse(&programs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// AddWorkoutDefinition adds a workout slot to one of the coach's programs.
func (h *CoachHandler) AddWorkoutDefinition(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	var req AddWorkoutDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	def := &domain.WorkoutDefinition{
		ProgramID:  programID,
		Name:       req.Name,
		WeekNumber: req.WeekNumber,
		DayOfWeek:  req.DayOfWeek,
		Sequence:   req.Sequence,
		Notes:      req.Notes,
	}
	if req.ParentWorkoutID != nil {
		parentID, err := primitive.ObjectIDFromHex(*req.ParentWorkoutID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid parent workout ID format")
			return
		}
		def.ParentWorkoutID = &parentID
	}

	created, err := h.coachService.AddWorkoutDefinition(c.Request.Context(), coachID, def)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrScheduleSlotTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidDayOfWeek), errors.Is(err, service.ErrFinisherParentInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add workout definition")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutDefinitionToResponse(created))
}

// GetWorkoutDefinitions lists the workout slots of a program.
func (h *CoachHandler) GetWorkoutDefinitions(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	defs, err := h.coachService.GetWorkoutDefinitions(c.Request.Context(), coachID, programID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to list workout definitions")
		}
		return
	}

	responses := make([]WorkoutDefinitionResponse, len(defs))
	for i := range defs {
		responses[i] = MapWorkoutDefinitionToResponse(&defs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// EnrollClient enrolls a managed client into a program.
func (h *CoachHandler) EnrollClient(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	var req EnrollClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	enrollment, err := h.coachService.EnrollClient(c.Request.Context(), coachID, clientID, programID, req.StartDate, req.DurationWeeks)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramAccessDenied), errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, MapEnrollmentToResponse(enrollment))
}

// DeactivateEnrollment ends an enrollment.
func (h *CoachHandler) DeactivateEnrollment(c *gin.Context) {
	coachID, ok := currentUserObjectID(c)
	if !ok {
		return
	}

	enrollmentID, err := primitive.ObjectIDFromHex(c.Param("enrollmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid enrollment ID format")
		return
	}

	if err := h.coachService.DeactivateEnrollment(c.Request.Context(), coachID, enrollmentID); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to deactivate enrollment")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Mappers ---

// MapProgramToResponse converts a domain Program to its DTO.
func MapProgramToResponse(program *domain.Program) ProgramResponse {
	return ProgramResponse{
		ID:            program.ID.Hex(),
		Name:          program.Name,
		Description:   program.Description,
		DurationWeeks: program.DurationWeeks,
		CreatedAt:     program.CreatedAt,
	}
}

// MapWorkoutDefinitionToResponse converts a domain WorkoutDefinition to its DTO.
func MapWorkoutDefinitionToResponse(def *domain.WorkoutDefinition) WorkoutDefinitionResponse {
	resp := WorkoutDefinitionResponse{
		ID:         def.ID.Hex(),
		ProgramID:  def.ProgramID.Hex(),
		Name:       def.Name,
		WeekNumber: def.EffectiveWeek(),
		DayOfWeek:  def.DayOfWeek,
		Sequence:   def.Sequence,
		Notes:      def.Notes,
	}
	if def.ParentWorkoutID != nil {
		parentHex := def.ParentWorkoutID.Hex()
		resp.ParentWorkoutID = &parentHex
	}
	return resp
}

// MapEnrollmentToResponse converts a domain ProgramEnrollment to its DTO.
func MapEnrollmentToResponse(enrollment *domain.ProgramEnrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:            enrollment.ID.Hex(),
		ClientID:      enrollment.ClientID.Hex(),
		ProgramID:     enrollment.ProgramID.Hex(),
		StartDate:     enrollment.StartDate,
		DurationWeeks: enrollment.DurationWeeks,
		IsActive:      enrollment.IsActive,
	}
}

// currentUserObjectID pulls the authenticated user's ID from the request
// context, aborting with 500 when the auth middleware didn't run.
func currentUserObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/adherence"
	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a coach")
	ErrClientNotManaged      = errors.New("client is not managed by this coach")
	ErrProgramNotFound       = errors.New("program not found")
	ErrProgramAccessDenied   = errors.New("access denied to this program")
	ErrWorkoutNotFound       = errors.New("workout definition not found")
	ErrInvalidDayOfWeek      = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrScheduleSlotTaken     = errors.New("a primary workout already occupies this week and day")
	ErrFinisherParentInvalid = errors.New("finisher parent must be a primary workout in the same program")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
)

// --- Service Interface ---
type CoachService interface {
	// Client Management
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)

	// Program Authoring
	CreateProgram(ctx context.Context, coachID primitive.ObjectID, name, description string, durationWeeks int) (*domain.Program, error)
	GetPrograms(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	AddWorkoutDefinition(ctx context.Context, coachID primitive.ObjectID, def *domain.WorkoutDefinition) (*domain.WorkoutDefinition, error)
	GetWorkoutDefinitions(ctx context.Context, coachID, programID primitive.ObjectID) ([]domain.WorkoutDefinition, error)

	// Enrollment Management
	EnrollClient(ctx context.Context, coachID, clientID, programID primitive.ObjectID, startDate string, durationWeeks int) (*domain.ProgramEnrollment, error)
	DeactivateEnrollment(ctx context.Context, coachID, enrollmentID primitive.ObjectID) error
}

// --- Service Implementation ---

// coachService implements the CoachService interface.
type coachService struct {
	userRepo       repository.UserRepository
	programRepo    repository.ProgramRepository
	workoutDefRepo repository.WorkoutDefinitionRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	workoutDefRepo repository.WorkoutDefinitionRepository,
	enrollmentRepo repository.EnrollmentRepository,
) CoachService {
	return &coachService{
		userRepo:       userRepo,
		programRepo:    programRepo,
		workoutDefRepo: workoutDefRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// === Client Management ===

// AddClientByEmail finds a client by email and assigns them to the coach.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("coach ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.CoachID != nil && *client.CoachID != primitive.NilObjectID {
		if *client.CoachID == coachID {
			// Already managed by this coach
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Update both sides of the relationship. Not transactional; a failure
	// between the two writes leaves the coach list ahead of the client
	// record, which the second call repairs.
	if err := s.userRepo.AddClientIDToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}

	client.CoachID = &coachID
	return client, nil
}

// GetManagedClients retrieves the list of clients managed by the coach.
func (s *coachService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	return s.userRepo.GetClientsByCoachID(ctx, coachID)
}

// === Program Authoring ===

// CreateProgram creates a new training program owned by the coach.
func (s *coachService) CreateProgram(ctx context.Context, coachID primitive.ObjectID, name, description string, durationWeeks int) (*domain.Program, error) {
	if coachID == primitive.NilObjectID || name == "" {
		return nil, errors.New("coach ID and program name are required")
	}
	if durationWeeks < 0 {
		return nil, errors.New("duration weeks cannot be negative")
	}

	program := &domain.Program{
		CoachID:       coachID,
		Name:          name,
		Description:   description,
		DurationWeeks: durationWeeks,
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// GetPrograms retrieves the programs authored by the coach.
func (s *coachService) GetPrograms(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	return s.programRepo.GetByCoachID(ctx, coachID)
}

// AddWorkoutDefinition adds a workout slot to a program owned by the coach.
// A primary workout claims a (week, day) cell and at most one primary may
// occupy a cell; a finisher attaches to an existing primary in the same
// program and holds no cell of its own.
func (s *coachService) AddWorkoutDefinition(ctx context.Context, coachID primitive.ObjectID, def *domain.WorkoutDefinition) (*domain.WorkoutDefinition, error) {
	if coachID == primitive.NilObjectID || def == nil || def.ProgramID == primitive.NilObjectID || def.Name == "" {
		return nil, errors.New("coach ID, program ID, and workout name are required")
	}

	program, err := s.getOwnedProgram(ctx, coachID, def.ProgramID)
	if err != nil {
		return nil, err
	}

	if def.DayOfWeek != nil && (*def.DayOfWeek < 0 || *def.DayOfWeek > 6) {
		return nil, ErrInvalidDayOfWeek
	}
	if def.WeekNumber < 1 {
		def.WeekNumber = 1
	}
	if program.DurationWeeks > 0 && def.WeekNumber > program.DurationWeeks {
		return nil, errors.New("week number exceeds program duration")
	}

	if def.IsFinisher() {
		parent, err := s.workoutDefRepo.GetByID(ctx, *def.ParentWorkoutID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrFinisherParentInvalid
			}
			return nil, err
		}
		if parent.ProgramID != def.ProgramID || parent.IsFinisher() {
			return nil, ErrFinisherParentInvalid
		}
		// Finishers surface through their parent, never as their own cell.
		def.DayOfWeek = nil
	} else if def.DayOfWeek != nil {
		taken, err := s.workoutDefRepo.CountPrimaryAt(ctx, def.ProgramID, def.WeekNumber, *def.DayOfWeek)
		if err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, ErrScheduleSlotTaken
		}
	}

	defID, err := s.workoutDefRepo.Create(ctx, def)
	if err != nil {
		return nil, err
	}
	def.ID = defID
	return def, nil
}

// GetWorkoutDefinitions retrieves the workout slots of a program owned by
// the coach, ordered week then sequence.
func (s *coachService) GetWorkoutDefinitions(ctx context.Context, coachID, programID primitive.ObjectID) ([]domain.WorkoutDefinition, error) {
	if _, err := s.getOwnedProgram(ctx, coachID, programID); err != nil {
		return nil, err
	}
	return s.workoutDefRepo.GetByProgramID(ctx, programID)
}

// === Enrollment Management ===

// EnrollClient enrolls a managed client into a program owned by the coach,
// starting on the given calendar date (YYYY-MM-DD). A zero durationWeeks
// inherits the program duration; a program with no duration yields an
// open-ended enrollment.
func (s *coachService) EnrollClient(ctx context.Context, coachID, clientID, programID primitive.ObjectID, startDate string, durationWeeks int) (*domain.ProgramEnrollment, error) {
	if coachID == primitive.NilObjectID || clientID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return nil, errors.New("coach ID, client ID, and program ID are required")
	}
	if durationWeeks < 0 {
		return nil, errors.New("duration weeks cannot be negative")
	}

	program, err := s.getOwnedProgram(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		return nil, ErrClientNotManaged
	}

	start, err := adherence.ParseDate(startDate)
	if err != nil {
		return nil, errors.New("start date must be formatted as YYYY-MM-DD")
	}

	if durationWeeks == 0 {
		durationWeeks = program.DurationWeeks
	}

	enrollment := &domain.ProgramEnrollment{
		ClientID:      clientID,
		CoachID:       coachID,
		ProgramID:     programID,
		StartDate:     start,
		DurationWeeks: durationWeeks,
		IsActive:      true,
	}

	enrollmentID, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = enrollmentID
	return enrollment, nil
}

// DeactivateEnrollment ends an enrollment owned by the coach.
func (s *coachService) DeactivateEnrollment(ctx context.Context, coachID, enrollmentID primitive.ObjectID) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}
	if enrollment.CoachID != coachID {
		return ErrEnrollmentNotFound
	}
	return s.enrollmentRepo.Deactivate(ctx, enrollmentID)
}

// getOwnedProgram fetches a program and verifies coach ownership.
func (s *coachService) getOwnedProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

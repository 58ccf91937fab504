package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"peakform/coach-app/internal/adherence"
	"peakform/coach-app/internal/config"
	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/repository"
	"peakform/coach-app/internal/storage"
)

// --- Error Definitions ---
var (
	ErrCompletionNotFound = errors.New("completion not found")
	ErrNotEnrolled        = errors.New("client has no enrollment covering this workout and date")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
	ErrSetLogsNotSaved    = errors.New("completion recorded but set logs could not be saved; resubmit to retry")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

const (
	recentCompletionsLimit = 10
	recentPhotosLimit      = 6
)

// --- View Types ---

// EnrollmentSchedule is the projected grid of one active enrollment.
type EnrollmentSchedule struct {
	EnrollmentID primitive.ObjectID                         `json:"enrollmentId"`
	ProgramID    primitive.ObjectID                         `json:"programId"`
	ProgramName  string                                     `json:"programName"`
	StartDate    time.Time                                  `json:"startDate"`
	Weeks        map[int]map[int]adherence.ScheduledWorkout `json:"weeks"`
	MaxWeek      int                                        `json:"maxWeek"`
}

// ScheduleView is the client's projected schedule. The top-level grid
// reflects the earliest active enrollment; Enrollments carries the
// per-enrollment breakdown for clients running more than one program.
// ScheduleByDay is the week-1 slice of ScheduleByWeekAndDay.
type ScheduleView struct {
	ScheduleByDay        map[int]adherence.ScheduledWorkout         `json:"scheduleByDay"`
	ScheduleByWeekAndDay map[int]map[int]adherence.ScheduledWorkout `json:"scheduleByWeekAndDay"`
	CompletionsByDate    map[string][]primitive.ObjectID            `json:"completionsByDate"`
	ProgramStartDate     *time.Time                                 `json:"programStartDate,omitempty"`
	MaxWeek              int                                        `json:"maxWeek"`
	Enrollments          []EnrollmentSchedule                       `json:"enrollments"`
}

// StreakView reports the client's adherence streak and the weekday set
// (0=Sunday) it was computed against.
type StreakView struct {
	Streak          int        `json:"streak"`
	ScheduledDays   []int      `json:"scheduledDays"`
	LongestStreak   int        `json:"longestStreak"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate,omitempty"`
}

// TonnageView reports total weight moved over a window.
type TonnageView struct {
	Period    adherence.Period `json:"period"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Tonnage   int              `json:"tonnage"`
}

// SetInput is one performed or corrected set.
type SetInput struct {
	ExerciseID primitive.ObjectID
	SetNumber  int
	Weight     *float64
	Reps       *int
}

// CompletionInput is a workout completion submission.
type CompletionInput struct {
	WorkoutID     primitive.ObjectID
	ScheduledDate string
	Sets          []SetInput
}

// ProgressPhotoView is a progress photo with a temporary download URL.
type ProgressPhotoView struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

// UploadURLResponse carries a presigned upload URL and the object key the
// client reports back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// DashboardView aggregates a client's progress surfaces.
type DashboardView struct {
	Streak            StreakView                `json:"streak"`
	PersonalBests     []domain.PersonalBest     `json:"personalBests"`
	RecentPhotos      []ProgressPhotoView       `json:"recentPhotos"`
	RecentCompletions []domain.CompletionRecord `json:"recentCompletions"`
}

// --- Service Interface ---
type ClientService interface {
	// Schedule and Metrics
	GetSchedule(ctx context.Context, clientID primitive.ObjectID, tz string) (*ScheduleView, error)
	GetStreak(ctx context.Context, clientID primitive.ObjectID, tz string) (*StreakView, error)
	GetTonnage(ctx context.Context, clientID primitive.ObjectID, tz string, period adherence.Period) (*TonnageView, error)
	GetDashboard(ctx context.Context, clientID primitive.ObjectID, tz string) (*DashboardView, error)

	// Completion Writes
	RecordCompletion(ctx context.Context, clientID primitive.ObjectID, input CompletionInput) (*domain.CompletionRecord, error)
	CorrectSets(ctx context.Context, clientID, completionID primitive.ObjectID, corrections []SetInput) error

	// Progress Photos
	RequestPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.ProgressPhoto, error)
	GetProgressPhotos(ctx context.Context, clientID primitive.ObjectID) ([]ProgressPhotoView, error)
}

// --- Service Implementation ---

// clientService implements the ClientService interface.
type clientService struct {
	programRepo    repository.ProgramRepository
	workoutDefRepo repository.WorkoutDefinitionRepository
	enrollmentRepo repository.EnrollmentRepository
	completionRepo repository.CompletionRepository
	setLogRepo     repository.SetLogRepository
	streakRepo     repository.StreakStateRepository
	photoRepo      repository.ProgressPhotoRepository
	bestRepo       repository.PersonalBestRepository
	fileStorage    storage.FileStorage
	engineCfg      config.EngineConfig
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	programRepo repository.ProgramRepository,
	workoutDefRepo repository.WorkoutDefinitionRepository,
	enrollmentRepo repository.EnrollmentRepository,
	completionRepo repository.CompletionRepository,
	setLogRepo repository.SetLogRepository,
	streakRepo repository.StreakStateRepository,
	photoRepo repository.ProgressPhotoRepository,
	bestRepo repository.PersonalBestRepository,
	fileStorage storage.FileStorage,
	engineCfg config.EngineConfig,
) ClientService {
	if engineCfg.StreakLookbackDays <= 0 {
		engineCfg.StreakLookbackDays = 90
	}
	return &clientService{
		programRepo:    programRepo,
		workoutDefRepo: workoutDefRepo,
		enrollmentRepo: enrollmentRepo,
		completionRepo: completionRepo,
		setLogRepo:     setLogRepo,
		streakRepo:     streakRepo,
		photoRepo:      photoRepo,
		bestRepo:       bestRepo,
		fileStorage:    fileStorage,
		engineCfg:      engineCfg,
	}
}

// === Schedule and Metrics ===

// GetSchedule projects every active enrollment of the client into a
// week/day grid and annotates which workouts were completed on which dates.
func (s *clientService) GetSchedule(ctx context.Context, clientID primitive.ObjectID, tz string) (*ScheduleView, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	enrollments, err := s.enrollmentRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	view := &ScheduleView{
		ScheduleByDay:        map[int]adherence.ScheduledWorkout{},
		ScheduleByWeekAndDay: map[int]map[int]adherence.ScheduledWorkout{},
		CompletionsByDate:    map[string][]primitive.ObjectID{},
		Enrollments:          []EnrollmentSchedule{},
	}
	if len(enrollments) == 0 {
		return view, nil
	}

	programIDs := make([]primitive.ObjectID, 0, len(enrollments))
	for _, e := range enrollments {
		programIDs = append(programIDs, e.ProgramID)
	}

	programs, err := s.programRepo.GetByIDs(ctx, programIDs)
	if err != nil {
		return nil, err
	}
	programNames := make(map[primitive.ObjectID]string, len(programs))
	for _, p := range programs {
		programNames[p.ID] = p.Name
	}

	defs, err := s.workoutDefRepo.GetByProgramIDs(ctx, programIDs)
	if err != nil {
		return nil, err
	}
	defsByProgram := make(map[primitive.ObjectID][]adherence.AnnotatedDefinition)
	for _, def := range defs {
		defsByProgram[def.ProgramID] = append(defsByProgram[def.ProgramID], adherence.AnnotatedDefinition{
			WorkoutDefinition: def,
			ProgramName:       programNames[def.ProgramID],
		})
	}

	earliestStart := enrollments[0].StartDate
	for i, e := range enrollments {
		if e.StartDate.Before(earliestStart) {
			earliestStart = e.StartDate
		}
		grid := adherence.BuildGrid(defsByProgram[e.ProgramID])
		// Enrollments come back ordered by start date, so the first one is
		// the grid the top-level view projects.
		if i == 0 {
			start := e.StartDate
			view.ScheduleByWeekAndDay = grid.ByWeek
			view.ScheduleByDay = grid.WeekOne()
			view.ProgramStartDate = &start
			view.MaxWeek = grid.MaxWeek
		}
		view.Enrollments = append(view.Enrollments, EnrollmentSchedule{
			EnrollmentID: e.ID,
			ProgramID:    e.ProgramID,
			ProgramName:  programNames[e.ProgramID],
			StartDate:    e.StartDate,
			Weeks:        grid.ByWeek,
			MaxWeek:      grid.MaxWeek,
		})
	}

	today := s.today(tz)
	completions, err := s.completionRepo.GetByClientAndDateRange(ctx, clientID, earliestStart, today)
	if err != nil {
		return nil, err
	}
	for _, c := range completions {
		key := adherence.DateKey(c.ScheduledDate)
		view.CompletionsByDate[key] = append(view.CompletionsByDate[key], c.WorkoutID)
	}

	return view, nil
}

// GetStreak recomputes the client's adherence streak from completion
// records. The materialized streak state only feeds the longest-streak
// figure and is refreshed best-effort.
func (s *clientService) GetStreak(ctx context.Context, clientID primitive.ObjectID, tz string) (*StreakView, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	today := s.today(tz)
	current, scheduledDays, lastWorkout, err := s.computeStreak(ctx, clientID, today)
	if err != nil {
		return nil, err
	}

	longest := current
	if state, err := s.streakRepo.Get(ctx, clientID); err == nil && state.LongestStreak > longest {
		longest = state.LongestStreak
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	s.persistStreak(ctx, clientID, current, longest, lastWorkout)

	return &StreakView{
		Streak:          current,
		ScheduledDays:   scheduledDays,
		LongestStreak:   longest,
		LastWorkoutDate: lastWorkout,
	}, nil
}

// GetTonnage sums weight x reps over the resolved window.
func (s *clientService) GetTonnage(ctx context.Context, clientID primitive.ObjectID, tz string, period adherence.Period) (*TonnageView, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	window := adherence.ResolveWindow(tz, period, time.Now(), s.engineCfg.DefaultTimezone)

	completions, err := s.completionRepo.GetByClientAndDateRange(ctx, clientID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	completionIDs := make([]primitive.ObjectID, 0, len(completions))
	for _, c := range completions {
		completionIDs = append(completionIDs, c.ID)
	}
	sets, err := s.setLogRepo.GetByCompletionIDs(ctx, completionIDs)
	if err != nil {
		return nil, err
	}

	return &TonnageView{
		Period:    period,
		StartDate: adherence.DateKey(window.Start),
		EndDate:   adherence.DateKey(window.End),
		Tonnage:   adherence.Tonnage(sets),
	}, nil
}

// GetDashboard aggregates streak, personal bests, recent photos and recent
// completions. The independent fetches run concurrently.
func (s *clientService) GetDashboard(ctx context.Context, clientID primitive.ObjectID, tz string) (*DashboardView, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	view := &DashboardView{
		PersonalBests:     []domain.PersonalBest{},
		RecentPhotos:      []ProgressPhotoView{},
		RecentCompletions: []domain.CompletionRecord{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		streak, err := s.GetStreak(gctx, clientID, tz)
		if err != nil {
			return err
		}
		view.Streak = *streak
		return nil
	})
	g.Go(func() error {
		bests, err := s.bestRepo.GetByClient(gctx, clientID)
		if err != nil {
			return err
		}
		if bests != nil {
			view.PersonalBests = bests
		}
		return nil
	})
	g.Go(func() error {
		photos, err := s.GetProgressPhotos(gctx, clientID)
		if err != nil {
			return err
		}
		view.RecentPhotos = photos
		return nil
	})
	g.Go(func() error {
		recent, err := s.completionRepo.GetRecentByClient(gctx, clientID, recentCompletionsLimit)
		if err != nil {
			return err
		}
		if recent != nil {
			view.RecentCompletions = recent
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// === Completion Writes ===

// RecordCompletion marks a workout as done on a scheduled date and stores
// the performed sets. Resubmitting the same (workout, date) overwrites the
// earlier submission instead of duplicating it.
//
// The completion record and its set logs are written in two steps without a
// transaction. If the set log write fails the completion stands and the
// client is told to resubmit; the resubmission replaces cleanly.
func (s *clientService) RecordCompletion(ctx context.Context, clientID primitive.ObjectID, input CompletionInput) (*domain.CompletionRecord, error) {
	if clientID == primitive.NilObjectID || input.WorkoutID == primitive.NilObjectID {
		return nil, errors.New("client ID and workout ID are required")
	}

	scheduledDate, err := adherence.ParseDate(input.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	def, err := s.workoutDefRepo.GetByID(ctx, input.WorkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	enrollmentID, err := s.findCoveringEnrollment(ctx, clientID, def.ProgramID, scheduledDate)
	if err != nil {
		return nil, err
	}

	completion, err := s.completionRepo.Upsert(ctx, &domain.CompletionRecord{
		ClientID:      clientID,
		WorkoutID:     input.WorkoutID,
		EnrollmentID:  enrollmentID,
		ScheduledDate: scheduledDate,
		CompletedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	sets := make([]domain.SetLog, 0, len(input.Sets))
	for _, in := range input.Sets {
		sets = append(sets, domain.SetLog{
			ExerciseID: in.ExerciseID,
			SetNumber:  in.SetNumber,
			Weight:     in.Weight,
			Reps:       in.Reps,
		})
	}
	if err := s.setLogRepo.ReplaceForCompletion(ctx, completion.ID, sets); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"clientId":     clientID.Hex(),
			"completionId": completion.ID.Hex(),
		}).Error("completion recorded but set logs failed to persist")
		return completion, ErrSetLogsNotSaved
	}

	s.updatePersonalBests(ctx, clientID, input.Sets, completion.CompletedAt)
	s.refreshStreakState(ctx, clientID, scheduledDate)

	return completion, nil
}

// CorrectSets overwrites weight and reps on already-logged sets of a
// completion owned by the client. Corrections that name a set which was
// never logged are ignored.
func (s *clientService) CorrectSets(ctx context.Context, clientID, completionID primitive.ObjectID, corrections []SetInput) error {
	if clientID == primitive.NilObjectID || completionID == primitive.NilObjectID {
		return errors.New("client ID and completion ID are required")
	}

	completion, err := s.completionRepo.GetByID(ctx, completionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCompletionNotFound
		}
		return err
	}
	if completion.ClientID != clientID {
		return ErrCompletionNotFound
	}

	for _, c := range corrections {
		if err := s.setLogRepo.UpdateSet(ctx, completionID, c.ExerciseID, c.SetNumber, c.Weight, c.Reps); err != nil {
			return err
		}
	}

	s.updatePersonalBests(ctx, clientID, corrections, completion.CompletedAt)
	return nil
}

// === Progress Photos ===

// RequestPhotoUploadURL generates a presigned URL for uploading a progress
// picture directly to object storage.
func (s *clientService) RequestPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("progress-photos", clientID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhotoUpload records photo metadata after the client has uploaded
// the file to object storage via the presigned URL.
func (s *clientService) ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.ProgressPhoto, error) {
	if clientID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("client ID and object key are required")
	}

	photo := &domain.ProgressPhoto{
		ClientID:    clientID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
		UploadedAt:  time.Now().UTC(),
	}

	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = photoID
	return photo, nil
}

// GetProgressPhotos lists the client's recent photos with temporary
// download URLs.
func (s *clientService) GetProgressPhotos(ctx context.Context, clientID primitive.ObjectID) ([]ProgressPhotoView, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	photos, err := s.photoRepo.GetRecentByClient(ctx, clientID, recentPhotosLimit)
	if err != nil {
		return nil, err
	}

	views := make([]ProgressPhotoView, 0, len(photos))
	for _, p := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, p.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, ErrDownloadURLError
		}
		views = append(views, ProgressPhotoView{ProgressPhoto: p, DownloadURL: url})
	}
	return views, nil
}

// === Helpers ===

// today resolves the client's current calendar date in the requested
// timezone, falling back to the engine default.
func (s *clientService) today(tz string) time.Time {
	window := adherence.ResolveWindow(tz, adherence.PeriodDay, time.Now(), s.engineCfg.DefaultTimezone)
	return window.End
}

// computeStreak derives the current streak, the scheduled weekday set it
// was computed against, and the last workout date from completion records.
func (s *clientService) computeStreak(ctx context.Context, clientID primitive.ObjectID, today time.Time) (int, []int, *time.Time, error) {
	scheduledDays := adherence.DefaultScheduledWeekdays
	enrollments, err := s.enrollmentRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		return 0, nil, nil, err
	}
	if len(enrollments) > 0 {
		defs, err := s.workoutDefRepo.GetByProgramID(ctx, enrollments[0].ProgramID)
		if err != nil {
			return 0, nil, nil, err
		}
		annotated := make([]adherence.AnnotatedDefinition, 0, len(defs))
		for _, d := range defs {
			annotated = append(annotated, adherence.AnnotatedDefinition{WorkoutDefinition: d})
		}
		if days := adherence.BuildGrid(annotated).ScheduledWeekdays(); len(days) > 0 {
			scheduledDays = days
		}
	}

	lookbackStart := today.AddDate(0, 0, -s.engineCfg.StreakLookbackDays)
	completions, err := s.completionRepo.GetByClientAndDateRange(ctx, clientID, lookbackStart, today)
	if err != nil {
		return 0, nil, nil, err
	}

	completed := make(map[string]bool, len(completions))
	var lastWorkout *time.Time
	for i := range completions {
		completed[adherence.DateKey(completions[i].ScheduledDate)] = true
		if lastWorkout == nil || completions[i].ScheduledDate.After(*lastWorkout) {
			lastWorkout = &completions[i].ScheduledDate
		}
	}

	streak := adherence.CalculateStreak(today, adherence.WeekdaySet(scheduledDays), completed)
	return streak, scheduledDays, lastWorkout, nil
}

// refreshStreakState recomputes and stores the streak projection after a
// completion write. Failures are logged, never surfaced: the projection is
// advisory and reads recompute anyway.
func (s *clientService) refreshStreakState(ctx context.Context, clientID primitive.ObjectID, completedDate time.Time) {
	today := s.today("")
	current, _, lastWorkout, err := s.computeStreak(ctx, clientID, today)
	if err != nil {
		log.WithError(err).WithField("clientId", clientID.Hex()).Warn("streak refresh failed after completion")
		return
	}
	if lastWorkout == nil || completedDate.After(*lastWorkout) {
		lastWorkout = &completedDate
	}

	longest := current
	if state, err := s.streakRepo.Get(ctx, clientID); err == nil && state.LongestStreak > longest {
		longest = state.LongestStreak
	}
	s.persistStreak(ctx, clientID, current, longest, lastWorkout)
}

// persistStreak upserts the streak projection, logging failures.
func (s *clientService) persistStreak(ctx context.Context, clientID primitive.ObjectID, current, longest int, lastWorkout *time.Time) {
	err := s.streakRepo.Upsert(ctx, &domain.StreakState{
		ClientID:        clientID,
		CurrentStreak:   current,
		LongestStreak:   longest,
		LastWorkoutDate: lastWorkout,
	})
	if err != nil {
		log.WithError(err).WithField("clientId", clientID.Hex()).Warn("failed to persist streak state")
	}
}

// updatePersonalBests upserts personal bests for any set beating the stored
// estimated one-rep max. Best-effort: failures are logged and never block
// the completion path.
func (s *clientService) updatePersonalBests(ctx context.Context, clientID primitive.ObjectID, sets []SetInput, achievedAt time.Time) {
	for _, in := range sets {
		if in.Weight == nil || in.Reps == nil || *in.Weight <= 0 || *in.Reps <= 0 {
			continue
		}
		estimate := domain.EstimateOneRM(*in.Weight, *in.Reps)

		existing, err := s.bestRepo.GetByClientAndExercise(ctx, clientID, in.ExerciseID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.WithError(err).WithField("clientId", clientID.Hex()).Warn("personal best lookup failed")
			continue
		}
		if existing != nil && existing.EstimatedOneRM >= estimate {
			continue
		}

		err = s.bestRepo.Upsert(ctx, &domain.PersonalBest{
			ClientID:       clientID,
			ExerciseID:     in.ExerciseID,
			Weight:         *in.Weight,
			Reps:           *in.Reps,
			EstimatedOneRM: estimate,
			AchievedAt:     achievedAt,
		})
		if err != nil {
			log.WithError(err).WithField("clientId", clientID.Hex()).Warn("personal best upsert failed")
		}
	}
}

// findCoveringEnrollment locates the active enrollment that ties the client
// to the workout's program on the scheduled date.
func (s *clientService) findCoveringEnrollment(ctx context.Context, clientID, programID primitive.ObjectID, date time.Time) (*primitive.ObjectID, error) {
	enrollments, err := s.enrollmentRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range enrollments {
		if enrollments[i].ProgramID == programID && enrollments[i].CoversDate(date) {
			id := enrollments[i].ID
			return &id, nil
		}
	}
	return nil, ErrNotEnrolled
}

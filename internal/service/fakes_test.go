package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/repository"
)

// In-memory fakes backing the service tests. They mirror the repository
// contracts, including the idempotent completion upsert key.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	coach, ok := f.users[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	coach.ClientIDs = append(coach.ClientIDs, clientID)
	return nil
}

func (f *fakeUserRepo) GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	var clients []domain.User
	for _, u := range f.users {
		if u.CoachID != nil && *u.CoachID == coachID {
			clients = append(clients, *u)
		}
	}
	return clients, nil
}

func (f *fakeUserRepo) SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error {
	client, ok := f.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CoachID = &coachID
	return nil
}

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: map[primitive.ObjectID]*domain.Program{}}
}

func (f *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	f.programs[program.ID] = program
	return program.ID, nil
}

func (f *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProgramRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, id := range ids {
		if p, ok := f.programs[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProgramRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range f.programs {
		if p.CoachID == coachID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeWorkoutDefRepo struct {
	defs map[primitive.ObjectID]*domain.WorkoutDefinition
}

func newFakeWorkoutDefRepo() *fakeWorkoutDefRepo {
	return &fakeWorkoutDefRepo{defs: map[primitive.ObjectID]*domain.WorkoutDefinition{}}
}

func (f *fakeWorkoutDefRepo) Create(ctx context.Context, def *domain.WorkoutDefinition) (primitive.ObjectID, error) {
	def.ID = primitive.NewObjectID()
	f.defs[def.ID] = def
	return def.ID, nil
}

func (f *fakeWorkoutDefRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutDefinition, error) {
	d, ok := f.defs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeWorkoutDefRepo) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.WorkoutDefinition, error) {
	return f.GetByProgramIDs(ctx, []primitive.ObjectID{programID})
}

func (f *fakeWorkoutDefRepo) GetByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) ([]domain.WorkoutDefinition, error) {
	members := map[primitive.ObjectID]bool{}
	for _, id := range programIDs {
		members[id] = true
	}
	var out []domain.WorkoutDefinition
	for _, d := range f.defs {
		if members[d.ProgramID] {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeWorkoutDefRepo) CountPrimaryAt(ctx context.Context, programID primitive.ObjectID, week, dayOfWeek int) (int64, error) {
	var count int64
	for _, d := range f.defs {
		if d.ProgramID == programID && d.EffectiveWeek() == week && !d.IsFinisher() &&
			d.DayOfWeek != nil && *d.DayOfWeek == dayOfWeek {
			count++
		}
	}
	return count, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[primitive.ObjectID]*domain.ProgramEnrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[primitive.ObjectID]*domain.ProgramEnrollment{}}
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *domain.ProgramEnrollment) (primitive.ObjectID, error) {
	enrollment.ID = primitive.NewObjectID()
	f.enrollments[enrollment.ID] = enrollment
	return enrollment.ID, nil
}

func (f *fakeEnrollmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramEnrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEnrollmentRepo) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramEnrollment, error) {
	var out []domain.ProgramEnrollment
	for _, e := range f.enrollments {
		if e.ClientID == clientID && e.IsActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	e, ok := f.enrollments[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.IsActive = false
	return nil
}

// fakeCompletionRepo keys records by (client, workout, date), matching the
// unique index on the real collection.
type fakeCompletionRepo struct {
	byKey map[string]*domain.CompletionRecord
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{byKey: map[string]*domain.CompletionRecord{}}
}

func completionKey(clientID, workoutID primitive.ObjectID, date time.Time) string {
	return clientID.Hex() + "|" + workoutID.Hex() + "|" + date.Format(domain.ScheduledDateLayout)
}

func (f *fakeCompletionRepo) Upsert(ctx context.Context, completion *domain.CompletionRecord) (*domain.CompletionRecord, error) {
	key := completionKey(completion.ClientID, completion.WorkoutID, completion.ScheduledDate)
	if existing, ok := f.byKey[key]; ok {
		existing.EnrollmentID = completion.EnrollmentID
		existing.CompletedAt = completion.CompletedAt
		copied := *existing
		return &copied, nil
	}
	completion.ID = primitive.NewObjectID()
	f.byKey[key] = completion
	copied := *completion
	return &copied, nil
}

func (f *fakeCompletionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletionRecord, error) {
	for _, c := range f.byKey {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCompletionRepo) GetByClientAndDateRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.CompletionRecord, error) {
	var out []domain.CompletionRecord
	for _, c := range f.byKey {
		if c.ClientID == clientID && !c.ScheduledDate.Before(start) && !c.ScheduledDate.After(end) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCompletionRepo) GetRecentByClient(ctx context.Context, clientID primitive.ObjectID, limit int64) ([]domain.CompletionRecord, error) {
	var out []domain.CompletionRecord
	for _, c := range f.byKey {
		if c.ClientID == clientID && int64(len(out)) < limit {
			out = append(out, *c)
		}
	}
	return out, nil
}

type setLogKey struct {
	completionID primitive.ObjectID
	exerciseID   primitive.ObjectID
	setNumber    int
}

type fakeSetLogRepo struct {
	sets map[setLogKey]*domain.SetLog
}

func newFakeSetLogRepo() *fakeSetLogRepo {
	return &fakeSetLogRepo{sets: map[setLogKey]*domain.SetLog{}}
}

func (f *fakeSetLogRepo) ReplaceForCompletion(ctx context.Context, completionID primitive.ObjectID, sets []domain.SetLog) error {
	for key := range f.sets {
		if key.completionID == completionID {
			delete(f.sets, key)
		}
	}
	for i := range sets {
		s := sets[i]
		s.ID = primitive.NewObjectID()
		s.CompletionID = completionID
		f.sets[setLogKey{completionID, s.ExerciseID, s.SetNumber}] = &s
	}
	return nil
}

func (f *fakeSetLogRepo) UpdateSet(ctx context.Context, completionID, exerciseID primitive.ObjectID, setNumber int, weight *float64, reps *int) error {
	// Unmatched keys are ignored, as in the real repository.
	if s, ok := f.sets[setLogKey{completionID, exerciseID, setNumber}]; ok {
		s.Weight = weight
		s.Reps = reps
	}
	return nil
}

func (f *fakeSetLogRepo) GetByCompletionIDs(ctx context.Context, completionIDs []primitive.ObjectID) ([]domain.SetLog, error) {
	members := map[primitive.ObjectID]bool{}
	for _, id := range completionIDs {
		members[id] = true
	}
	var out []domain.SetLog
	for _, s := range f.sets {
		if members[s.CompletionID] {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeStreakRepo struct {
	states map[primitive.ObjectID]*domain.StreakState
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{states: map[primitive.ObjectID]*domain.StreakState{}}
}

func (f *fakeStreakRepo) Get(ctx context.Context, clientID primitive.ObjectID) (*domain.StreakState, error) {
	s, ok := f.states[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStreakRepo) Upsert(ctx context.Context, state *domain.StreakState) error {
	copied := *state
	f.states[state.ClientID] = &copied
	return nil
}

type fakePhotoRepo struct {
	photos []domain.ProgressPhoto
}

func (f *fakePhotoRepo) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	photo.ID = primitive.NewObjectID()
	f.photos = append(f.photos, *photo)
	return photo.ID, nil
}

func (f *fakePhotoRepo) GetRecentByClient(ctx context.Context, clientID primitive.ObjectID, limit int64) ([]domain.ProgressPhoto, error) {
	var out []domain.ProgressPhoto
	for _, p := range f.photos {
		if p.ClientID == clientID && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeBestRepo struct {
	bests map[primitive.ObjectID]*domain.PersonalBest // keyed by exercise
}

func newFakeBestRepo() *fakeBestRepo {
	return &fakeBestRepo{bests: map[primitive.ObjectID]*domain.PersonalBest{}}
}

func (f *fakeBestRepo) GetByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.PersonalBest, error) {
	var out []domain.PersonalBest
	for _, b := range f.bests {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBestRepo) GetByClientAndExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID) (*domain.PersonalBest, error) {
	b, ok := f.bests[exerciseID]
	if !ok || b.ClientID != clientID {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBestRepo) Upsert(ctx context.Context, best *domain.PersonalBest) error {
	copied := *best
	f.bests[best.ExerciseID] = &copied
	return nil
}

type fakeFileStorage struct{}

func (fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
	getCalls  int
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[primitive.ObjectID]*domain.Exercise{}}
}

func (f *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	f.exercises[exercise.ID] = exercise
	return exercise.ID, nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := f.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeExerciseRepo) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	f.getCalls++
	for _, e := range f.exercises {
		if e.Name == name {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range f.exercises {
		if e.CoachID == coachID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if _, ok := f.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	f.exercises[exercise.ID] = exercise
	return nil
}

func (f *fakeExerciseRepo) Delete(ctx context.Context, id, coachID primitive.ObjectID) error {
	e, ok := f.exercises[id]
	if !ok || e.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(f.exercises, id)
	return nil
}

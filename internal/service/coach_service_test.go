package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/domain"
)

type coachServiceFixture struct {
	svc         CoachService
	users       *fakeUserRepo
	programs    *fakeProgramRepo
	defs        *fakeWorkoutDefRepo
	enrollments *fakeEnrollmentRepo
	coachID     primitive.ObjectID
}

func newCoachServiceFixture(t *testing.T) *coachServiceFixture {
	t.Helper()
	f := &coachServiceFixture{
		users:       newFakeUserRepo(),
		programs:    newFakeProgramRepo(),
		defs:        newFakeWorkoutDefRepo(),
		enrollments: newFakeEnrollmentRepo(),
	}
	f.svc = NewCoachService(f.users, f.programs, f.defs, f.enrollments)

	coachID, err := f.users.Create(context.Background(), &domain.User{
		Name:  "Coach",
		Email: "coach@example.com",
		Role:  domain.RoleCoach,
	})
	require.NoError(t, err)
	f.coachID = coachID
	return f
}

func (f *coachServiceFixture) addClient(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	clientID, err := f.users.Create(context.Background(), &domain.User{
		Name:  "Client",
		Email: email,
		Role:  domain.RoleClient,
	})
	require.NoError(t, err)
	return clientID
}

func TestAddClientByEmail(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()
	f.addClient(t, "client@example.com")

	client, err := f.svc.AddClientByEmail(ctx, f.coachID, "client@example.com")
	require.NoError(t, err)
	require.NotNil(t, client.CoachID)
	assert.Equal(t, f.coachID, *client.CoachID)

	// Re-adding the same client is a no-op, not an error.
	_, err = f.svc.AddClientByEmail(ctx, f.coachID, "client@example.com")
	assert.NoError(t, err)

	// A second coach cannot claim the client.
	otherCoach, err := f.users.Create(ctx, &domain.User{Email: "other@example.com", Role: domain.RoleCoach})
	require.NoError(t, err)
	_, err = f.svc.AddClientByEmail(ctx, otherCoach, "client@example.com")
	assert.ErrorIs(t, err, ErrClientAlreadyAssigned)
}

func TestAddClientByEmailRejectsNonClients(t *testing.T) {
	f := newCoachServiceFixture(t)

	_, err := f.svc.AddClientByEmail(context.Background(), f.coachID, "coach@example.com")
	assert.ErrorIs(t, err, ErrClientNotRole)

	_, err = f.svc.AddClientByEmail(context.Background(), f.coachID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestAddWorkoutDefinitionSlotUniqueness(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()

	program, err := f.svc.CreateProgram(ctx, f.coachID, "Hypertrophy", "", 4)
	require.NoError(t, err)

	day := 2
	first, err := f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:  program.ID,
		Name:       "Upper A",
		WeekNumber: 1,
		DayOfWeek:  &day,
	})
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, first.ID)

	// Same cell, second primary: rejected.
	_, err = f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:  program.ID,
		Name:       "Upper B",
		WeekNumber: 1,
		DayOfWeek:  &day,
	})
	assert.ErrorIs(t, err, ErrScheduleSlotTaken)

	// Same day in another week is fine.
	_, err = f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:  program.ID,
		Name:       "Upper B",
		WeekNumber: 2,
		DayOfWeek:  &day,
	})
	assert.NoError(t, err)
}

func TestAddWorkoutDefinitionFinisherRules(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()

	program, err := f.svc.CreateProgram(ctx, f.coachID, "Hypertrophy", "", 4)
	require.NoError(t, err)

	day := 3
	primary, err := f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:  program.ID,
		Name:       "Push Day",
		WeekNumber: 1,
		DayOfWeek:  &day,
	})
	require.NoError(t, err)

	// A finisher never claims a cell, even if submitted with a day.
	finisher, err := f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:       program.ID,
		Name:            "Arm Finisher",
		WeekNumber:      1,
		DayOfWeek:       &day,
		ParentWorkoutID: &primary.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, finisher.DayOfWeek)

	// Finisher of a finisher: rejected.
	_, err = f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:       program.ID,
		Name:            "Nested",
		ParentWorkoutID: &finisher.ID,
	})
	assert.ErrorIs(t, err, ErrFinisherParentInvalid)

	// Parent from another program: rejected.
	other, err := f.svc.CreateProgram(ctx, f.coachID, "Other", "", 4)
	require.NoError(t, err)
	_, err = f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:       other.ID,
		Name:            "Stray Finisher",
		ParentWorkoutID: &primary.ID,
	})
	assert.ErrorIs(t, err, ErrFinisherParentInvalid)
}

func TestAddWorkoutDefinitionValidation(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()

	program, err := f.svc.CreateProgram(ctx, f.coachID, "Block", "", 2)
	require.NoError(t, err)

	badDay := 7
	_, err = f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID: program.ID,
		Name:      "Bad Day",
		DayOfWeek: &badDay,
	})
	assert.ErrorIs(t, err, ErrInvalidDayOfWeek)

	_, err = f.svc.AddWorkoutDefinition(ctx, f.coachID, &domain.WorkoutDefinition{
		ProgramID:  program.ID,
		Name:       "Too Late",
		WeekNumber: 3,
	})
	assert.Error(t, err)

	// Another coach cannot author into this program.
	otherCoach := primitive.NewObjectID()
	_, err = f.svc.AddWorkoutDefinition(ctx, otherCoach, &domain.WorkoutDefinition{
		ProgramID: program.ID,
		Name:      "Intruder",
	})
	assert.ErrorIs(t, err, ErrProgramAccessDenied)
}

func TestEnrollClient(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()
	clientID := f.addClient(t, "client@example.com")

	_, err := f.svc.AddClientByEmail(ctx, f.coachID, "client@example.com")
	require.NoError(t, err)

	program, err := f.svc.CreateProgram(ctx, f.coachID, "Block", "", 8)
	require.NoError(t, err)

	enrollment, err := f.svc.EnrollClient(ctx, f.coachID, clientID, program.ID, "2026-08-31", 0)
	require.NoError(t, err)
	assert.True(t, enrollment.IsActive)
	// Zero duration inherits the program length.
	assert.Equal(t, 8, enrollment.DurationWeeks)
	assert.Equal(t, "2026-08-31", enrollment.StartDate.Format(domain.ScheduledDateLayout))

	_, err = f.svc.EnrollClient(ctx, f.coachID, clientID, program.ID, "31/08/2026", 0)
	assert.Error(t, err)
}

func TestEnrollClientRequiresManagedClient(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()
	clientID := f.addClient(t, "loose@example.com")

	program, err := f.svc.CreateProgram(ctx, f.coachID, "Block", "", 4)
	require.NoError(t, err)

	_, err = f.svc.EnrollClient(ctx, f.coachID, clientID, program.ID, "2026-08-31", 0)
	assert.ErrorIs(t, err, ErrClientNotManaged)
}

func TestDeactivateEnrollment(t *testing.T) {
	f := newCoachServiceFixture(t)
	ctx := context.Background()
	clientID := f.addClient(t, "client@example.com")
	_, err := f.svc.AddClientByEmail(ctx, f.coachID, "client@example.com")
	require.NoError(t, err)

	program, err := f.svc.CreateProgram(ctx, f.coachID, "Block", "", 4)
	require.NoError(t, err)
	enrollment, err := f.svc.EnrollClient(ctx, f.coachID, clientID, program.ID, "2026-08-31", 0)
	require.NoError(t, err)

	// Another coach cannot end it.
	err = f.svc.DeactivateEnrollment(ctx, primitive.NewObjectID(), enrollment.ID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	require.NoError(t, f.svc.DeactivateEnrollment(ctx, f.coachID, enrollment.ID))
	stored, err := f.enrollments.GetByID(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

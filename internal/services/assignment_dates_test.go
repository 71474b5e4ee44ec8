package services

import (
	"testing"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateStartDate(t *testing.T) {
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(3 * time.Hour)

	t.Run("returns earliest start", func(t *testing.T) {
		trackers := []models.Tracker{
			{Start: &late},
			{Start: &early},
		}
		got := RecalculateStartDate(trackers)
		require.NotNil(t, got)
		assert.True(t, got.Equal(early))
	})

	t.Run("ignores trackers without a start", func(t *testing.T) {
		trackers := []models.Tracker{
			{Start: nil},
			{Start: &late},
		}
		got := RecalculateStartDate(trackers)
		require.NotNil(t, got)
		assert.True(t, got.Equal(late))
	})

	t.Run("nil when no tracker has started", func(t *testing.T) {
		assert.Nil(t, RecalculateStartDate([]models.Tracker{{Start: nil}}))
		assert.Nil(t, RecalculateStartDate(nil))
	})
}

func TestRecalculateEndDate(t *testing.T) {
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(3 * time.Hour)

	t.Run("returns latest end", func(t *testing.T) {
		trackers := []models.Tracker{
			{End: &early},
			{End: &late},
		}
		got := RecalculateEndDate(trackers)
		require.NotNil(t, got)
		assert.True(t, got.Equal(late))
	})

	t.Run("nil when any computation has no ends", func(t *testing.T) {
		assert.Nil(t, RecalculateEndDate([]models.Tracker{{End: nil}}))
		assert.Nil(t, RecalculateEndDate(nil))
	})
}

func TestVerifyDatesChanges_AdoptsFirstStart(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	env.createTracker(t, assignment.ID, org.ID, &start, nil)

	err := env.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		NewStartDate:   &start,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(start))
	assert.Nil(t, reloaded.EndDate)

	// The start cascades to the task.
	reloadedTask := env.reloadTask(t, task.ID)
	require.NotNil(t, reloadedTask.StartDate)
	assert.True(t, reloadedTask.StartDate.Equal(start))
}

func TestVerifyDatesChanges_KeepsEarlierStart(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	later := early.Add(2 * time.Hour)

	assignment.StartDate = &early
	require.NoError(t, env.db.Save(assignment).Error)

	err := env.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		NewStartDate:   &later,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(early))
}

func TestVerifyDatesChanges_AdoptsEarlierStart(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	current := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	earlier := current.Add(-2 * time.Hour)

	assignment.StartDate = &current
	require.NoError(t, env.db.Save(assignment).Error)

	err := env.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		NewStartDate:   &earlier,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(earlier))
}

func TestVerifyDatesChanges_RecomputesWhenBoundaryTrackerRemoved(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	boundary := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	remaining := boundary.Add(time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &remaining, nil)

	assignment.StartDate = &boundary
	require.NoError(t, env.db.Save(assignment).Error)

	// The tracker that carried the 09:00 boundary lost its start.
	err := env.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		NewStartDate:   nil,
		OldStartDate:   &boundary,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(remaining))
}

func TestVerifyDatesChanges_OpenTrackerClearsEnd(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	assignment.StartDate = &start
	assignment.EndDate = &end
	require.NoError(t, env.db.Save(assignment).Error)

	// A new open tracker means work resumed.
	err := env.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		NewStartDate:   &start,
		NewEndDate:     nil,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	assert.Nil(t, reloaded.EndDate)
}

func TestVerifyDatesChanges_AdoptsLaterEnd(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	firstEnd := start.Add(time.Hour)
	laterEnd := start.Add(3 * time.Hour)
	assignment.StartDate = &start
	assignment.EndDate = &firstEnd
	require.NoError(t, env.db.Save(assignment).Error)

	err := env.datesService.VerifyDatesChanges(VerifyDatesChangesInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		NewStartDate:   &start,
		NewEndDate:     &laterEnd,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.EndDate)
	assert.True(t, reloaded.EndDate.Equal(laterEnd))
}

func TestVerifyRecalculateDates_RecomputesLostBoundaries(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	deletedStart := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	deletedEnd := deletedStart.Add(6 * time.Hour)
	keptStart := deletedStart.Add(time.Hour)
	keptEnd := deletedStart.Add(2 * time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &keptStart, &keptEnd)

	assignment.StartDate = &deletedStart
	assignment.EndDate = &deletedEnd
	require.NoError(t, env.db.Save(assignment).Error)

	err := env.datesService.VerifyRecalculateDates(VerifyRecalculateDatesInput{
		AssignmentID:     assignment.ID,
		OrganizationID:   org.ID,
		ChangedStartDate: &deletedStart,
		ChangedEndDate:   &deletedEnd,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	require.NotNil(t, reloaded.EndDate)
	assert.True(t, reloaded.StartDate.Equal(keptStart))
	assert.True(t, reloaded.EndDate.Equal(keptEnd))
}

func TestVerifyRecalculateDates_LeavesUnrelatedBoundsAlone(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	boundary := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	unrelated := boundary.Add(4 * time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &boundary, nil)

	assignment.StartDate = &boundary
	require.NoError(t, env.db.Save(assignment).Error)

	// The changed tracker did not carry the boundary: nothing moves.
	err := env.datesService.VerifyRecalculateDates(VerifyRecalculateDatesInput{
		AssignmentID:     assignment.ID,
		OrganizationID:   org.ID,
		ChangedStartDate: &unrelated,
	})
	require.NoError(t, err)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(boundary))
}

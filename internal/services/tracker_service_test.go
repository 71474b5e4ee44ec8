package services

import (
	"testing"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTracker_UpdatesAssignmentDates(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tracker, err := env.trackerService.StartTracker(StartTrackerInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Reason:         "análise",
		Start:          &start,
	})
	require.NoError(t, err)
	require.NotNil(t, tracker.Start)
	assert.Nil(t, tracker.End)

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(start))
}

func TestStartTracker_RejectsClosedAssignment(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	assignment.Status = models.AssignmentStatusClosed
	require.NoError(t, env.db.Save(assignment).Error)

	_, err := env.trackerService.StartTracker(StartTrackerInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
	})
	assert.ErrorIs(t, err, ErrTrackerOnClosedTarget)
}

func TestStopTracker_SetsAssignmentEnd(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tracker := env.createTracker(t, assignment.ID, org.ID, &start, nil)

	end := start.Add(2 * time.Hour)
	stopped, err := env.trackerService.StopTracker(StopTrackerInput{
		TrackerID:      tracker.ID,
		OrganizationID: org.ID,
		End:            &end,
	})
	require.NoError(t, err)
	require.NotNil(t, stopped.End)
	assert.True(t, stopped.End.Equal(end))

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.EndDate)
	assert.True(t, reloaded.EndDate.Equal(end))
}

func TestStopTracker_AlreadyStopped(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	tracker := env.createTracker(t, assignment.ID, org.ID, &start, &end)

	_, err := env.trackerService.StopTracker(StopTrackerInput{
		TrackerID:      tracker.ID,
		OrganizationID: org.ID,
	})
	assert.ErrorIs(t, err, ErrTrackerAlreadyStopped)
}

func TestStopTracker_EndBeforeStart(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tracker := env.createTracker(t, assignment.ID, org.ID, &start, nil)

	before := start.Add(-time.Minute)
	_, err := env.trackerService.StopTracker(StopTrackerInput{
		TrackerID:      tracker.ID,
		OrganizationID: org.ID,
		End:            &before,
	})
	assert.ErrorIs(t, err, ErrTrackerEndBeforeStart)
}

func TestDeleteTracker_RecomputesBoundary(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	boundaryStart := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	boundaryEnd := boundaryStart.Add(5 * time.Hour)
	boundary := env.createTracker(t, assignment.ID, org.ID, &boundaryStart, &boundaryEnd)

	keptStart := boundaryStart.Add(time.Hour)
	keptEnd := boundaryStart.Add(2 * time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &keptStart, &keptEnd)

	assignment.StartDate = &boundaryStart
	assignment.EndDate = &boundaryEnd
	require.NoError(t, env.db.Save(assignment).Error)

	require.NoError(t, env.trackerService.DeleteTracker(boundary.ID, org.ID))

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	require.NotNil(t, reloaded.EndDate)
	assert.True(t, reloaded.StartDate.Equal(keptStart))
	assert.True(t, reloaded.EndDate.Equal(keptEnd))
}

func TestDeleteTracker_LastTrackerClearsDates(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	tracker := env.createTracker(t, assignment.ID, org.ID, &start, &end)

	assignment.StartDate = &start
	assignment.EndDate = &end
	require.NoError(t, env.db.Save(assignment).Error)

	require.NoError(t, env.trackerService.DeleteTracker(tracker.ID, org.ID))

	reloaded := env.reloadAssignment(t, assignment.ID)
	assert.Nil(t, reloaded.StartDate)
	assert.Nil(t, reloaded.EndDate)
}

func TestUpdateTracker_MovesBoundary(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	tracker := env.createTracker(t, assignment.ID, org.ID, &start, &end)

	assignment.StartDate = &start
	assignment.EndDate = &end
	require.NoError(t, env.db.Save(assignment).Error)

	earlier := start.Add(-time.Hour)
	updated, err := env.trackerService.UpdateTracker(tracker.ID, org.ID, UpdateTrackerInput{
		Start: &earlier,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Start)
	assert.True(t, updated.Start.Equal(earlier))

	reloaded := env.reloadAssignment(t, assignment.ID)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, reloaded.StartDate.Equal(earlier))
}

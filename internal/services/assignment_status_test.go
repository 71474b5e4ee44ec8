package services

import (
	"testing"
	"time"

	apperrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeStatus_CloseWithoutTrackers(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	_, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusClosed,
	})
	assert.ErrorIs(t, err, apperrors.ErrCloseAssignmentWithoutTrackers)

	reloaded := env.reloadAssignment(t, assignment.ID)
	assert.Equal(t, models.AssignmentStatusOpen, reloaded.Status)
}

func TestChangeStatus_CloseWithStaleOpenTracker(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	// A session forgotten open for 13 hours blocks the close.
	staleStart := time.Now().Add(-13 * time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &staleStart, nil)

	_, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusClosed,
	})
	assert.ErrorIs(t, err, apperrors.ErrCloseAssignmentWithOpenTracker)

	reloaded := env.reloadAssignment(t, assignment.ID)
	assert.Equal(t, models.AssignmentStatusOpen, reloaded.Status)
}

func TestChangeStatus_CloseAutoStopsRecentTracker(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	recentStart := time.Now().Add(-2 * time.Hour)
	tracker := env.createTracker(t, assignment.ID, org.ID, &recentStart, nil)

	updated, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusClosed,
	})
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentStatusClosed, updated.Status)
	require.NotNil(t, updated.EndDate)

	var reloadedTracker models.Tracker
	require.NoError(t, env.db.First(&reloadedTracker, tracker.ID).Error)
	require.NotNil(t, reloadedTracker.End)
	assert.True(t, reloadedTracker.End.Equal(*updated.EndDate))
}

func TestChangeStatus_SameStatusIsNoOp(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	// No trackers, yet no error: the transition never runs.
	updated, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusOpen, updated.Status)
}

func TestChangeStatus_ReopenClearsEndDate(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	end := time.Now().Add(-time.Hour)
	assignment.Status = models.AssignmentStatusClosed
	assignment.EndDate = &end
	require.NoError(t, env.db.Save(assignment).Error)

	updated, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusOpen,
	})
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentStatusOpen, updated.Status)
	assert.Nil(t, updated.EndDate)
}

func TestChangeStatus_ReopenBlockedByStartedSuccessor(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Finished", org.ID)
	successor := env.createTask(t, "Successor", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	taskEnd := time.Now().Add(-24 * time.Hour)
	task.EndDate = &taskEnd
	require.NoError(t, env.db.Save(task).Error)

	successorStart := time.Now().Add(-time.Hour)
	successor.StartDate = &successorStart
	require.NoError(t, env.db.Save(successor).Error)
	require.NoError(t, env.db.Model(task).Association("NextTasks").Append(successor))

	assignment.Status = models.AssignmentStatusClosed
	require.NoError(t, env.db.Save(assignment).Error)

	_, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusOpen,
	})
	assert.ErrorIs(t, err, apperrors.ErrOpenAssignmentInClosedTask)
}

func TestChangeStatus_ReopenAllowedWhenSuccessorNotStarted(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Finished", org.ID)
	successor := env.createTask(t, "Successor", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	taskEnd := time.Now().Add(-24 * time.Hour)
	task.EndDate = &taskEnd
	require.NoError(t, env.db.Save(task).Error)
	require.NoError(t, env.db.Model(task).Association("NextTasks").Append(successor))

	assignment.Status = models.AssignmentStatusClosed
	require.NoError(t, env.db.Save(assignment).Error)

	updated, err := env.statusService.ChangeStatus(ChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		Status:         models.AssignmentStatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusOpen, updated.Status)
}

func TestPersonalChangeStatus_RejectsOtherUsersAssignment(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	owner := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, owner.ID, org.ID)

	intruder := &models.User{Email: "bruno@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(intruder).Error)
	other := env.createCollaborator(t, "Bruno", org.ID)
	other.UserID = &intruder.ID
	require.NoError(t, env.db.Save(other).Error)

	_, err := env.statusService.PersonalChangeStatus(PersonalChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		UserID:         intruder.ID,
		Status:         models.AssignmentStatusClosed,
	})
	assert.ErrorIs(t, err, apperrors.ErrChangeStatusFromAnotherUser)
}

func TestPersonalChangeStatus_ClosesOwnAssignmentAndCascades(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)

	user := &models.User{Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(user).Error)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	collaborator.UserID = &user.ID
	require.NoError(t, env.db.Save(collaborator).Error)

	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)
	start := time.Now().Add(-2 * time.Hour)
	end := time.Now().Add(-time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &start, &end)
	assignment.StartDate = &start
	assignment.EndDate = &end
	require.NoError(t, env.db.Save(assignment).Error)

	updated, err := env.statusService.PersonalChangeStatus(PersonalChangeStatusInput{
		AssignmentID:   assignment.ID,
		OrganizationID: org.ID,
		UserID:         user.ID,
		Status:         models.AssignmentStatusClosed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusClosed, updated.Status)

	// The only assignment closed, so the task end date is resolved.
	reloadedTask := env.reloadTask(t, task.ID)
	assert.NotNil(t, reloadedTask.EndDate)
}

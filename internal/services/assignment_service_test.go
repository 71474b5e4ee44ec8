package services

import (
	"testing"
	"time"

	apperrors "github.com/escritorio-dados/nanowip-sub000/internal/errors"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignment_Success(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)

	limit := 40
	assignment, err := env.assignmentService.CreateAssignment(CreateAssignmentInput{
		TaskID:         task.ID,
		CollaboratorID: collaborator.ID,
		OrganizationID: org.ID,
		TimeLimit:      &limit,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusOpen, assignment.Status)
	require.NotNil(t, assignment.TimeLimit)
	assert.Equal(t, 40, *assignment.TimeLimit)
	assert.Nil(t, assignment.StartDate)
	assert.Nil(t, assignment.EndDate)
}

func TestCreateAssignment_Duplicate(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	_, err := env.assignmentService.CreateAssignment(CreateAssignmentInput{
		TaskID:         task.ID,
		CollaboratorID: collaborator.ID,
		OrganizationID: org.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateAssignment)
}

func TestCreateAssignment_BlockedOnFinishedTaskWithStartedSuccessor(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Finished", org.ID)
	successor := env.createTask(t, "Successor", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)

	taskEnd := time.Now().Add(-24 * time.Hour)
	task.EndDate = &taskEnd
	require.NoError(t, env.db.Save(task).Error)

	successorStart := time.Now().Add(-time.Hour)
	successor.StartDate = &successorStart
	require.NoError(t, env.db.Save(successor).Error)
	require.NoError(t, env.db.Model(task).Association("NextTasks").Append(successor))

	_, err := env.assignmentService.CreateAssignment(CreateAssignmentInput{
		TaskID:         task.ID,
		CollaboratorID: collaborator.ID,
		OrganizationID: org.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrOpenAssignmentInClosedTask)
}

func TestCreateAssignment_MissingTask(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	collaborator := env.createCollaborator(t, "Ana", org.ID)

	_, err := env.assignmentService.CreateAssignment(CreateAssignmentInput{
		TaskID:         9999,
		CollaboratorID: collaborator.ID,
		OrganizationID: org.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteAssignment_BlockedByTrackers(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	start := time.Now().Add(-time.Hour)
	env.createTracker(t, assignment.ID, org.ID, &start, nil)

	err := env.assignmentService.DeleteAssignment(assignment.ID, org.ID)
	assert.ErrorIs(t, err, apperrors.ErrDeleteAssignmentWithTrackers)
}

func TestDeleteAssignment_WithoutTrackers(t *testing.T) {
	env := setupServiceTestEnv(t)
	org := env.createOrganization(t, "Org")
	task := env.createTask(t, "Task", org.ID)
	collaborator := env.createCollaborator(t, "Ana", org.ID)
	assignment := env.createAssignment(t, task.ID, collaborator.ID, org.ID)

	require.NoError(t, env.assignmentService.DeleteAssignment(assignment.ID, org.ID))

	var reloaded models.Assignment
	err := env.db.First(&reloaded, assignment.ID).Error
	assert.Error(t, err)
}

func TestGetPersonalAssignment_RejectsOtherUser(t *testing.T) {
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

	_, err := env.assignmentService.GetPersonalAssignment(assignment.ID, org.ID, intruder.ID)
	assert.ErrorIs(t, err, apperrors.ErrPersonalAccessAnotherUser)
}

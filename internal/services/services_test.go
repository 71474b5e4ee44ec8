package services

import (
	"testing"
	"time"

	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/escritorio-dados/nanowip-sub000/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// serviceTestEnv wires the full service graph over an in-memory database so
// the date cascade runs end to end in tests.
type serviceTestEnv struct {
	db *gorm.DB

	assignmentRepo   repository.AssignmentRepository
	trackerRepo      repository.TrackerRepository
	taskRepo         repository.TaskRepository
	collaboratorRepo repository.CollaboratorRepository

	batchService      *AssignmentBatchService
	taskService       *TaskService
	datesService      *AssignmentDatesService
	statusService     *AssignmentStatusService
	assignmentService *AssignmentService
	trackerService    *TrackerService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Collaborator{},
		&models.Task{},
		&models.Assignment{},
		&models.Tracker{},
	)
	require.NoError(t, err)

	assignmentRepo := repository.NewAssignmentRepository(db)
	trackerRepo := repository.NewTrackerRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	collaboratorRepo := repository.NewCollaboratorRepository(db)

	batchService := NewAssignmentBatchService(assignmentRepo, trackerRepo)
	taskService := NewTaskService(taskRepo, assignmentRepo, batchService)
	datesService := NewAssignmentDatesService(assignmentRepo, trackerRepo, taskService)
	statusService := NewAssignmentStatusService(assignmentRepo, trackerRepo, taskRepo, collaboratorRepo, taskService)
	assignmentService := NewAssignmentService(assignmentRepo, trackerRepo, taskRepo, collaboratorRepo, statusService)
	trackerService := NewTrackerService(trackerRepo, assignmentRepo, datesService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:                db,
		assignmentRepo:    assignmentRepo,
		trackerRepo:       trackerRepo,
		taskRepo:          taskRepo,
		collaboratorRepo:  collaboratorRepo,
		batchService:      batchService,
		taskService:       taskService,
		datesService:      datesService,
		statusService:     statusService,
		assignmentService: assignmentService,
		trackerService:    trackerService,
	}
}

func (env serviceTestEnv) createOrganization(t *testing.T, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Name:       name,
		InviteCode: name + "_CODE",
	}
	require.NoError(t, env.db.Create(org).Error)
	return org
}

func (env serviceTestEnv) createTask(t *testing.T, name string, orgID uint64) *models.Task {
	t.Helper()
	now := time.Now()
	task := &models.Task{
		Name:           name,
		OrganizationID: orgID,
		AvailableDate:  &now,
	}
	require.NoError(t, env.db.Create(task).Error)
	return task
}

func (env serviceTestEnv) createCollaborator(t *testing.T, name string, orgID uint64) *models.Collaborator {
	t.Helper()
	collaborator := &models.Collaborator{
		Name:           name,
		Type:           models.CollaboratorTypeInternal,
		OrganizationID: orgID,
	}
	require.NoError(t, env.db.Create(collaborator).Error)
	return collaborator
}

func (env serviceTestEnv) createAssignment(t *testing.T, taskID, collaboratorID, orgID uint64) *models.Assignment {
	t.Helper()
	assignment := &models.Assignment{
		TaskID:         taskID,
		CollaboratorID: collaboratorID,
		OrganizationID: orgID,
		Status:         models.AssignmentStatusOpen,
	}
	require.NoError(t, env.db.Create(assignment).Error)
	return assignment
}

func (env serviceTestEnv) createTracker(t *testing.T, assignmentID, orgID uint64, start, end *time.Time) *models.Tracker {
	t.Helper()
	tracker := &models.Tracker{
		AssignmentID:   assignmentID,
		OrganizationID: orgID,
		Start:          start,
		End:            end,
	}
	require.NoError(t, env.db.Create(tracker).Error)
	return tracker
}

func (env serviceTestEnv) reloadAssignment(t *testing.T, id uint64) *models.Assignment {
	t.Helper()
	var assignment models.Assignment
	require.NoError(t, env.db.First(&assignment, id).Error)
	return &assignment
}

func (env serviceTestEnv) reloadTask(t *testing.T, id uint64) *models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, env.db.First(&task, id).Error)
	return &task
}

func timePtr(t time.Time) *time.Time {
	return &t
}

package repository

import (
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID within an organization, with optional preloading
	FindByID(id, organizationID uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateAll bulk-saves tasks
	UpdateAll(tasks []models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// ReplaceDependencies replaces a task's predecessor links
	ReplaceDependencies(task *models.Task, previous []models.Task) error

	// CountAssignments counts the assignments under a task
	CountAssignments(taskID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OrganizationID uint64
	Name           *string
	OnlyAvailable  bool
	OnlyFinished   bool
	Page           int
	PageSize       int
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	// Create creates a new assignment
	Create(assignment *models.Assignment) error

	// FindByID finds an assignment by ID within an organization, with optional preloading
	FindByID(id, organizationID uint64, preload ...string) (*models.Assignment, error)

	// FindByTaskAndCollaborator finds the assignment binding a collaborator to a task
	FindByTaskAndCollaborator(taskID, collaboratorID, organizationID uint64) (*models.Assignment, error)

	// FindAllByTask retrieves every assignment under a task
	FindAllByTask(taskID, organizationID uint64, preload ...string) ([]models.Assignment, error)

	// FindAllByCollaborator retrieves every assignment of a collaborator
	FindAllByCollaborator(collaboratorID, organizationID uint64, preload ...string) ([]models.Assignment, error)

	// FindAll retrieves every assignment of an organization
	FindAll(organizationID uint64, preload ...string) ([]models.Assignment, error)

	// Update updates an assignment
	Update(assignment *models.Assignment) error

	// UpdateAll bulk-saves assignments
	UpdateAll(assignments []models.Assignment) error

	// Delete soft deletes an assignment
	Delete(id uint64) error

	// ApplyTaskClose applies the task-close batch in a single transaction:
	// stale trackers deleted, remaining open trackers closed, assignments saved.
	ApplyTaskClose(deleteTrackers, saveTrackers []models.Tracker, saveAssignments []models.Assignment) error
}

// TrackerRepository defines the interface for tracker data access
type TrackerRepository interface {
	// Create creates a new tracker
	Create(tracker *models.Tracker) error

	// FindByID finds a tracker by ID within an organization
	FindByID(id, organizationID uint64) (*models.Tracker, error)

	// FindByAssignment retrieves all trackers of one assignment
	FindByAssignment(assignmentID, organizationID uint64) ([]models.Tracker, error)

	// FindByAssignmentIDs retrieves the trackers of many assignments at once
	FindByAssignmentIDs(assignmentIDs []uint64, organizationID uint64) ([]models.Tracker, error)

	// CountByAssignment counts the trackers of an assignment
	CountByAssignment(assignmentID uint64) (int64, error)

	// Update updates a tracker
	Update(tracker *models.Tracker) error

	// Delete soft deletes a tracker
	Delete(id uint64) error
}

// CollaboratorRepository defines the interface for collaborator data access
type CollaboratorRepository interface {
	// Create creates a new collaborator
	Create(collaborator *models.Collaborator) error

	// FindByID finds a collaborator by ID within an organization
	FindByID(id, organizationID uint64) (*models.Collaborator, error)

	// FindByUser finds the collaborator linked to a login user
	FindByUser(userID, organizationID uint64) (*models.Collaborator, error)

	// List retrieves an organization's collaborators with pagination
	List(organizationID uint64, page, pageSize int) ([]models.Collaborator, int64, error)

	// Update updates a collaborator
	Update(collaborator *models.Collaborator) error

	// Delete soft deletes a collaborator
	Delete(id uint64) error

	// CountAssignments counts the assignments bound to a collaborator
	CountAssignments(collaboratorID uint64) (int64, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// ListAll lists every organization
	ListAll() ([]models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and all related data
	Delete(id uint64) error

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithPersonalOrganization creates a user, their personal organization,
	// and corresponding membership within a single transaction.
	CreateWithPersonalOrganization(user *models.User, org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

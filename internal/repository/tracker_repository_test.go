package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB opens GORM over a sqlmock connection so the repository's SQL
// can be asserted without a live Postgres.
func setupMockDB(t *testing.T) (TrackerRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewTrackerRepository(db), mock
}

func TestTrackerRepository_CountByAssignment(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT count(*) FROM "trackers" WHERE assignment_id = $1 AND "trackers"."deleted_at" IS NULL`,
	)).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByAssignment(7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackerRepository_FindByAssignment_ScopesByOrganization(t *testing.T) {
	repo, mock := setupMockDB(t)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "assignment_id", "organization_id", "start"}).
		AddRow(1, 7, 2, start)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "trackers" WHERE (assignment_id = $1 AND organization_id = $2) AND "trackers"."deleted_at" IS NULL ORDER BY id`,
	)).WithArgs(int64(7), int64(2)).
		WillReturnRows(rows)

	trackers, err := repo.FindByAssignment(7, 2)
	require.NoError(t, err)
	require.Len(t, trackers, 1)
	assert.Equal(t, uint64(7), trackers[0].AssignmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackerRepository_FindByAssignmentIDs_EmptyInput(t *testing.T) {
	repo, mock := setupMockDB(t)

	// No query should be issued for an empty ID list.
	trackers, err := repo.FindByAssignmentIDs(nil, 2)
	require.NoError(t, err)
	assert.Empty(t, trackers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

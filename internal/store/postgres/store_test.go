package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/hrdesk/internal/models"
	"github.com/shrimpsizemoose/hrdesk/internal/store"
)

// setupTestDB starts a disposable Postgres container and opens a store on it
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(&store.DBConfig{DSN: dsn, Type: store.DBTypePostgres})
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func TestRebind(t *testing.T) {
	assert.Equal(t,
		"SELECT 1 FROM attendance WHERE date >= $1 AND date <= $2",
		rebind("SELECT 1 FROM attendance WHERE date >= ? AND date <= ?"),
	)
	assert.Equal(t, "SELECT 1", rebind("SELECT 1"))
}

func TestPostgresStore(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	alice := &models.Employee{EmpID: "E001", Name: "Alice", Email: "alice@example.com", Department: "Engineering"}
	require.NoError(t, s.CreateEmployee(ctx, alice))
	require.NotZero(t, alice.ID)

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, s.ApplyMigrations())
	})

	t.Run("duplicate emp_id", func(t *testing.T) {
		err := s.CreateEmployee(ctx, &models.Employee{EmpID: "E001", Name: "Eve", Email: "eve@example.com", Department: "Ops"})
		assert.ErrorIs(t, err, store.ErrUniqueViolation)
	})

	t.Run("exists checks", func(t *testing.T) {
		found, err := s.EmpIDExists(ctx, "E001")
		require.NoError(t, err)
		assert.True(t, found)

		found, err = s.EmailExists(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("history order", func(t *testing.T) {
		for _, date := range []string{"2024-01-01", "2024-01-03", "2024-01-02"} {
			require.NoError(t, s.CreateAttendance(ctx, &models.Attendance{EmpDBID: alice.ID, Date: date, Status: "Present"}))
		}

		history, err := s.ListAttendanceByEmployee(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "2024-01-03", history[0].Date)
		assert.Equal(t, "2024-01-02", history[1].Date)
		assert.Equal(t, "2024-01-01", history[2].Date)
	})

	t.Run("unknown employee", func(t *testing.T) {
		err := s.CreateAttendance(ctx, &models.Attendance{EmpDBID: 9999, Date: "2024-01-05", Status: "Present"})
		assert.ErrorIs(t, err, store.ErrForeignKeyViolation)
	})

	t.Run("delete cascades", func(t *testing.T) {
		deleted, err := s.DeleteEmployee(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		history, err := s.ListAttendanceByEmployee(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, history)

		deleted, err = s.DeleteEmployee(ctx, alice.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

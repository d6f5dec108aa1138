package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/models"
)

const adminID = 42

func setupTestBot(t *testing.T) (*Bot, int64) {
	s, err := app.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	service := app.NewServiceWith(&app.Config{}, s, nil)
	service.Now = func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	}

	name, email, empID, dept := "Alice", "alice@example.com", "E001", "Engineering"
	alice, err := service.CreateEmployee(context.Background(), &models.EmployeeRequest{
		EmpID: &empID, Name: &name, Email: &email, Department: &dept,
	})
	require.NoError(t, err)

	return &Bot{service: service, admins: adminSet([]int64{adminID})}, alice.ID
}

func TestParseMarkArgs(t *testing.T) {
	req, err := parseMarkArgs([]string{"3", "Present"}, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, &models.AttendanceRequest{EmployeeID: 3, Status: "Present", Date: "2024-03-15"}, req)

	req, err = parseMarkArgs([]string{"3", "Absent", "2024-01-01"}, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", req.Date)

	_, err = parseMarkArgs([]string{"three", "Absent"}, "2024-03-15")
	assert.Error(t, err)

	_, err = parseMarkArgs([]string{"3"}, "2024-03-15")
	assert.Error(t, err)
}

func TestReply(t *testing.T) {
	b, alice := setupTestBot(t)
	ctx := context.Background()
	// fresh database, commands below address the first employee as 1
	require.Equal(t, int64(1), alice)

	t.Run("unknown command shows help", func(t *testing.T) {
		assert.Equal(t, userHelp, b.reply(ctx, 7, "dance", nil))
		assert.Equal(t, adminHelp, b.reply(ctx, adminID, "help", nil))
	})

	t.Run("mark is admin only", func(t *testing.T) {
		assert.Equal(t, userHelp, b.reply(ctx, 7, "mark", []string{"1", "Present"}))

		text := b.reply(ctx, adminID, "mark", []string{"1", "Present"})
		assert.Contains(t, text, "Marked employee 1 as Present on 2024-03-15")
	})

	t.Run("today", func(t *testing.T) {
		text := b.reply(ctx, 7, "today", nil)
		assert.Equal(t, "Attendance for 2024-03-15:\n1: Present\n", text)
	})

	t.Run("history", func(t *testing.T) {
		b.reply(ctx, adminID, "mark", []string{"1", "Absent", "2024-03-14"})
		text := b.reply(ctx, 7, "history", []string{"1"})
		assert.Equal(t, "History of Alice (1):\n2024-03-15: Present\n2024-03-14: Absent\n", text)
	})

	t.Run("history of unknown employee", func(t *testing.T) {
		assert.Equal(t, "Error: Employee not found", b.reply(ctx, 7, "history", []string{"999"}))
	})

	t.Run("summary", func(t *testing.T) {
		text := b.reply(ctx, 7, "summary", []string{"2024-03-01", "2024-03-31"})
		assert.Equal(t, "Summary 2024-03-01..2024-03-31:\n1: 2 days, Absent=1 Present=1\n", text)
	})

	t.Run("employees", func(t *testing.T) {
		text := b.reply(ctx, 7, "employees", nil)
		assert.Contains(t, text, "E001 Alice (Engineering) <alice@example.com>")
	})

	t.Run("errors carry the client message only", func(t *testing.T) {
		assert.Equal(t, "Error: Failed to save attendance", b.reply(ctx, adminID, "mark", []string{"999", "Present"}))
		assert.Equal(t, "Error: usage: /daily <date>", b.reply(ctx, 7, "daily", nil))
		assert.Equal(t, "No attendance marked for 1999-01-01", b.reply(ctx, 7, "daily", []string{"1999-01-01"}))
	})
}

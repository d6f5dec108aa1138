package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/apperrors"
	"github.com/shrimpsizemoose/hrdesk/internal/models"
)

const (
	userHelp = `Available commands:
/employees - List employees
/today - Today's attendance
/daily <date> - Attendance for a date (YYYY-MM-DD)
/history <id> - Attendance history of an employee
/summary <from> <to> - Status counts per employee
/help - Show this message`

	adminHelp = userHelp + `

Admin commands:
/mark <id> <status> [date] - Mark attendance, date defaults to today

Examples:
/mark 3 Present
/mark 3 Absent 2024-12-01`
)

// replyFunc handles a command and returns the text to send back.
type replyFunc func(ctx context.Context, args []string) (string, error)

func (b *Bot) routeUserCommands(cmd string) (replyFunc, bool) {
	commands := map[string]replyFunc{
		"start":     b.replyStart,
		"employees": b.replyEmployees,
		"today":     b.replyToday,
		"daily":     b.replyDaily,
		"history":   b.replyHistory,
		"summary":   b.replySummary,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeAdminCommands(cmd string) (replyFunc, bool) {
	commands := map[string]replyFunc{
		"mark": b.replyMark,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, "Use commands to talk to me. Send /help for the list.")
		return
	}

	text := b.reply(context.Background(), msg.From.ID, msg.Command(), strings.Fields(msg.CommandArguments()))
	if err := b.sendMessage(msg.Chat.ID, text); err != nil {
		logger.Error.Printf("Reply to %d failed: %v", msg.Chat.ID, err)
	}
}

func (b *Bot) reply(ctx context.Context, userID int64, cmd string, args []string) string {
	handler, ok := b.routeUserCommands(cmd)
	if !ok && b.admins[userID] {
		handler, ok = b.routeAdminCommands(cmd)
	}
	if !ok {
		return b.help(userID)
	}

	text, err := handler(ctx, args)
	if err != nil {
		logger.Error.Printf("Command /%s error: %v", cmd, err)
		_, message := apperrors.StatusOf(err)
		return "Error: " + message
	}
	return text
}

func (b *Bot) help(userID int64) string {
	if b.admins[userID] {
		return adminHelp
	}
	return userHelp
}

func (b *Bot) replyStart(ctx context.Context, args []string) (string, error) {
	return "Hi! I keep track of employee attendance.\n\n" + userHelp, nil
}

func (b *Bot) replyEmployees(ctx context.Context, args []string) (string, error) {
	employees, err := b.service.ListEmployees(ctx)
	if err != nil {
		return "", err
	}
	if len(employees) == 0 {
		return "No employees yet", nil
	}

	var msg strings.Builder
	msg.WriteString("Employees:\n")
	for _, e := range employees {
		fmt.Fprintf(&msg, "%d. %s %s (%s) <%s>\n", e.ID, e.EmpID, e.Name, e.Department, e.Email)
	}
	return msg.String(), nil
}

func (b *Bot) replyToday(ctx context.Context, args []string) (string, error) {
	return b.replyDaily(ctx, []string{b.service.Today()})
}

func (b *Bot) replyDaily(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", apperrors.Validation("usage: /daily <date>")
	}
	date := args[0]

	snapshot, err := b.service.DailySnapshot(ctx, date)
	if err != nil {
		return "", err
	}
	if len(snapshot) == 0 {
		return fmt.Sprintf("No attendance marked for %s", date), nil
	}

	ids := make([]int64, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var msg strings.Builder
	fmt.Fprintf(&msg, "Attendance for %s:\n", date)
	for _, id := range ids {
		fmt.Fprintf(&msg, "%d: %s\n", id, snapshot[id])
	}
	return msg.String(), nil
}

func (b *Bot) replyHistory(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", apperrors.Validation("usage: /history <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "", apperrors.Validation("employee id must be a number")
	}

	employee, err := b.service.GetEmployee(ctx, id)
	if err != nil {
		return "", err
	}
	records, err := b.service.History(ctx, id)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return fmt.Sprintf("No attendance records for %s (%d)", employee.Name, id), nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "History of %s (%d):\n", employee.Name, id)
	for _, r := range records {
		fmt.Fprintf(&msg, "%s: %s\n", r.Date, r.Status)
	}
	return msg.String(), nil
}

func (b *Bot) replySummary(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", apperrors.Validation("usage: /summary <from> <to>")
	}

	summaries, err := b.service.Summary(ctx, args[0], args[1])
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return fmt.Sprintf("No attendance between %s and %s", args[0], args[1]), nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "Summary %s..%s:\n", args[0], args[1])
	for _, s := range summaries {
		statuses := make([]string, 0, len(s.Statuses))
		for status, count := range s.Statuses {
			statuses = append(statuses, fmt.Sprintf("%s=%d", status, count))
		}
		sort.Strings(statuses)
		fmt.Fprintf(&msg, "%d: %d days, %s\n", s.EmployeeID, s.Days, strings.Join(statuses, " "))
	}
	return msg.String(), nil
}

func (b *Bot) replyMark(ctx context.Context, args []string) (string, error) {
	req, err := parseMarkArgs(args, b.service.Today())
	if err != nil {
		return "", err
	}

	if _, err := b.service.MarkAttendance(ctx, req); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Marked employee %d as %s on %s", req.EmployeeID, req.Status, req.Date), nil
}

func parseMarkArgs(args []string, today string) (*models.AttendanceRequest, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, apperrors.Validation("usage: /mark <id> <status> [date]")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, apperrors.Validation("employee id must be a number")
	}

	date := today
	if len(args) == 3 {
		date = args[2]
	}

	return &models.AttendanceRequest{
		EmployeeID: id,
		Status:     args[1],
		Date:       date,
	}, nil
}

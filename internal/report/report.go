// Package report folds raw attendance rows into the per-day and
// per-employee views served by the API and the bot.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shrimpsizemoose/hrdesk/internal/models"
	"github.com/shrimpsizemoose/hrdesk/internal/store"
)

// DailySnapshot maps employee db id to status. When an employee was marked
// several times the record with the highest id wins, regardless of input order.
func DailySnapshot(records []models.Attendance) map[int64]string {
	snapshot := make(map[int64]string, len(records))
	winner := make(map[int64]int64, len(records))
	for _, r := range records {
		if id, seen := winner[r.EmpDBID]; seen && id > r.ID {
			continue
		}
		winner[r.EmpDBID] = r.ID
		snapshot[r.EmpDBID] = r.Status
	}
	return snapshot
}

type EmployeeSummary struct {
	EmployeeID int64          `json:"employee_id"`
	Days       int            `json:"days"`
	Statuses   map[string]int `json:"statuses"`
}

type Summarizer struct {
	store store.HRStore
}

func NewSummarizer(store store.HRStore) *Summarizer {
	return &Summarizer{store: store}
}

// Summarize counts statuses per employee between from and to inclusive.
// Each (employee, date) pair counts once, resolved like DailySnapshot.
func (s *Summarizer) Summarize(ctx context.Context, from, to string) ([]EmployeeSummary, error) {
	records, err := s.store.ListAttendanceBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	byDate := make(map[string][]models.Attendance)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	summaries := make(map[int64]*EmployeeSummary)
	for _, dayRecords := range byDate {
		for empID, status := range DailySnapshot(dayRecords) {
			sum, ok := summaries[empID]
			if !ok {
				sum = &EmployeeSummary{EmployeeID: empID, Statuses: make(map[string]int)}
				summaries[empID] = sum
			}
			sum.Days++
			sum.Statuses[status]++
		}
	}

	result := make([]EmployeeSummary, 0, len(summaries))
	for _, sum := range summaries {
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeID < result[j].EmployeeID
	})

	return result, nil
}

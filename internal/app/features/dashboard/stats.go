// internal/app/features/dashboard/stats.go
package dashboard

import (
	"math"
	"strconv"
	"time"

	"github.com/dalemusser/taskhub/internal/domain/models"
)

// MonthStats buckets the current month's tasks by status.
type MonthStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
	Backlog    int `json:"backlog"`
}

// PriorityBreakdown counts open (non-done) tasks by priority.
type PriorityBreakdown struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// YearStats is one year's slice of the five-year history.
type YearStats struct {
	Year           string `json:"year"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
}

// Stats is the dashboard aggregation response.
type Stats struct {
	YearlyStats       []YearStats       `json:"yearlyStats"`
	CurrentMonthStats MonthStats        `json:"currentMonthStats"`
	PriorityBreakdown PriorityBreakdown `json:"priorityBreakdown"`
	CompletionRate    int               `json:"completionRate"`
	TotalTasks        int               `json:"totalTasks"`
	CompletedTasks    int               `json:"completedTasks"`
	CurrentYear       int               `json:"currentYear"`
	CurrentMonth      int               `json:"currentMonth"`
	CurrentMonthName  string            `json:"currentMonthName"`
}

// roundRate is round(100 * completed / total), 0 when total is 0, so the
// aggregation never divides by zero.
func roundRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// EmptyStats is the zeroed response for callers with no projects. The
// aggregation is skipped entirely; yearlyStats stays an empty array.
func EmptyStats(now time.Time) Stats {
	return Stats{
		YearlyStats:      []YearStats{},
		CurrentYear:      now.Year(),
		CurrentMonth:     int(now.Month()),
		CurrentMonthName: now.Format("January 2006"),
	}
}

// ComputeStats aggregates tasks into the dashboard response. The caller
// passes every task from their accepted projects; bucketing keys off each
// task's creation timestamp against now.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	s := Stats{YearlyStats: []YearStats{}}
	year, month := now.Year(), now.Month()

	yearTotals := map[int]int{}
	yearCompleted := map[int]int{}

	for _, t := range tasks {
		created := t.CreatedAt
		if created.IsZero() {
			continue
		}

		if created.Year() == year && created.Month() == month {
			s.CurrentMonthStats.Total++
			switch t.Status {
			case models.StatusDone:
				s.CurrentMonthStats.Completed++
			case models.StatusInProgress:
				s.CurrentMonthStats.InProgress++
			case models.StatusTodo:
				s.CurrentMonthStats.Todo++
			case models.StatusBacklog:
				s.CurrentMonthStats.Backlog++
			}
		}

		if t.Status != models.StatusDone {
			switch t.Priority {
			case models.PriorityUrgent:
				s.PriorityBreakdown.Urgent++
			case models.PriorityHigh:
				s.PriorityBreakdown.High++
			case models.PriorityMedium:
				s.PriorityBreakdown.Medium++
			case models.PriorityLow:
				s.PriorityBreakdown.Low++
			}
		}

		yearTotals[created.Year()]++
		if t.Status == models.StatusDone {
			yearCompleted[created.Year()]++
		}

		s.TotalTasks++
		if t.Status == models.StatusDone {
			s.CompletedTasks++
		}
	}

	// Five years of history ending at the current year, oldest first.
	for y := year - 4; y <= year; y++ {
		total := yearTotals[y]
		completed := yearCompleted[y]
		s.YearlyStats = append(s.YearlyStats, YearStats{
			Year:           strconv.Itoa(y),
			Total:          total,
			Completed:      completed,
			CompletionRate: roundRate(completed, total),
		})
	}

	s.CompletionRate = roundRate(s.CompletedTasks, s.TotalTasks)
	s.CurrentYear = year
	s.CurrentMonth = int(month)
	s.CurrentMonthName = now.Format("January 2006")
	return s
}

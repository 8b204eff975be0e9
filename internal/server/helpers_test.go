package server

import (
	"strconv"
	"time"

	"timestrap/internal/domain"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func identity(code, name string) domain.Identity {
	return domain.Identity{EmployeeID: code, EmployeeName: name}
}

func taskFor(worked time.Duration) domain.Task {
	task := domain.NewTask("Apollo", "Build", day)
	task.TimeEntries = []domain.TimeEntry{domain.NewClosedTimeEntry(day, day.Add(worked))}
	return task
}

package domain

import "sort"

// ToolUsage counts the tasks that name a tool.
type ToolUsage struct {
	Tool  string `json:"tool"`
	Tasks int    `json:"tasks"`
}

// TaskAnalytics is the per-task line of a day's analytics.
type TaskAnalytics struct {
	Project           string `json:"project"`
	Title             string `json:"title"`
	Seconds           int64  `json:"seconds"`
	CompletionPercent int    `json:"completionPercent"`
	IsComplete        bool   `json:"isComplete"`
}

// DayAnalytics aggregates tool usage, time per task and completion over a set of tasks.
type DayAnalytics struct {
	TotalSeconds      int64           `json:"totalSeconds"`
	Tools             []ToolUsage     `json:"tools"`
	Tasks             []TaskAnalytics `json:"tasks"`
	AverageCompletion float64         `json:"averageCompletion"`
	CompletedTasks    int             `json:"completedTasks"`
}

// Analyze builds the analytics of tasks. Tasks keep their order; tools are ordered by
// usage, then by name. A tool named twice by one task counts once for it.
func Analyze(tasks []Task) DayAnalytics {
	a := DayAnalytics{
		Tools: []ToolUsage{},
		Tasks: make([]TaskAnalytics, 0, len(tasks)),
	}

	counts := map[string]int{}
	var percentSum int
	for _, t := range tasks {
		seconds := t.Seconds()
		a.TotalSeconds += seconds
		a.Tasks = append(a.Tasks, TaskAnalytics{
			Project:           t.Project,
			Title:             t.Title,
			Seconds:           seconds,
			CompletionPercent: t.CompletionPercent,
			IsComplete:        t.IsComplete,
		})
		percentSum += t.CompletionPercent
		if t.IsComplete {
			a.CompletedTasks++
		}

		seen := map[string]bool{}
		for _, tool := range t.Tools {
			if tool == "" || seen[tool] {
				continue
			}
			seen[tool] = true
			counts[tool]++
		}
	}

	for tool, n := range counts {
		a.Tools = append(a.Tools, ToolUsage{Tool: tool, Tasks: n})
	}
	sort.Slice(a.Tools, func(i, j int) bool {
		if a.Tools[i].Tasks != a.Tools[j].Tasks {
			return a.Tools[i].Tasks > a.Tools[j].Tasks
		}
		return a.Tools[i].Tool < a.Tools[j].Tool
	})

	if len(tasks) > 0 {
		a.AverageCompletion = float64(percentSum) / float64(len(tasks))
	}
	return a
}

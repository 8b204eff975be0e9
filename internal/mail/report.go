package mail

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"timestrap/internal/domain"
)

// Defaults shown when a task leaves a field empty.
const (
	NoDescription = "No description provided"
	NoTools       = "None"
)

type reportEntry struct {
	Start string
	End   string
	Clock string
}

type reportTask struct {
	Number      int
	Project     string
	Title       string
	Description string
	Tools       string
	Percent     int
	Complete    bool
	Clock       string
	Entries     []reportEntry
}

type reportData struct {
	EmployeeName string
	EmployeeID   string
	Date         string
	Shift        string
	Target       string
	Total        string
	Link         string
	Tasks        []reportTask
}

var textReport = texttemplate.Must(texttemplate.New("text").Parse(
	`Timesheet for {{.EmployeeName}} ({{.EmployeeID}})
Date: {{.Date}}
Shift: {{.Shift}} (target {{.Target}})
Total: {{.Total}}
{{range $t := .Tasks}}
Task {{$t.Number}}:
  Project: {{$t.Project}}
  Title: {{$t.Title}}
  Description: {{$t.Description}}
  Tools: {{$t.Tools}}
  Completion: {{$t.Percent}}%{{if $t.Complete}} (complete){{end}}
  Time: {{$t.Clock}}
{{- range $t.Entries}}
    {{.Start}} - {{.End}} ({{.Clock}})
{{- end}}
{{end}}
View full timesheet: {{.Link}}
`))

var htmlReport = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<h2>Timesheet for {{.EmployeeName}} ({{.EmployeeID}})</h2>
<p>Date: {{.Date}}<br>Shift: {{.Shift}} (target {{.Target}})<br>Total: <strong>{{.Total}}</strong></p>
{{range .Tasks}}<div style="margin-bottom:12px">
<h3>{{.Project}}: {{.Title}}</h3>
<p>Description: {{.Description}}<br>Tools: {{.Tools}}<br>Completion: {{.Percent}}%{{if .Complete}} (complete){{end}}<br>Time: {{.Clock}}</p>
<ul>{{range .Entries}}<li>{{.Start}} - {{.End}} ({{.Clock}})</li>{{end}}</ul>
</div>
{{end}}<p><a href="{{.Link}}">View full timesheet</a></p>
`))

// TimesheetLink builds the link to the timesheet page of an employee's day.
func TimesheetLink(base, employeeID, date string) string {
	return strings.TrimRight(base, "/") + "/timesheet/" + employeeID + "/" + date
}

// RenderTimesheet renders the subject, HTML body and plain-text body of a submitted timesheet.
func RenderTimesheet(b domain.TimesheetBundle, linkBase string) (subject, html, text string, err error) {
	data := reportData{
		EmployeeName: b.Employee.EmployeeName,
		EmployeeID:   b.Employee.EmployeeID,
		Date:         b.Date,
		Shift:        string(b.Shift),
		Target:       domain.FormatClock(b.Shift.TargetSeconds()),
		Total:        domain.FormatClock(b.TotalSeconds()),
		Link:         TimesheetLink(linkBase, b.Employee.EmployeeID, b.Date),
	}
	for i, t := range b.Tasks {
		rt := reportTask{
			Number:      i + 1,
			Project:     t.Project,
			Title:       t.Title,
			Description: t.Description,
			Tools:       domain.JoinTools(t.Tools),
			Percent:     t.CompletionPercent,
			Complete:    t.IsComplete,
			Clock:       domain.FormatClock(t.Seconds()),
		}
		if strings.TrimSpace(rt.Description) == "" {
			rt.Description = NoDescription
		}
		if rt.Tools == "" {
			rt.Tools = NoTools
		}
		for _, e := range t.TimeEntries {
			rt.Entries = append(rt.Entries, reportEntry{
				Start: e.StartTime.Format("15:04:05"),
				End:   e.EndTime.Format("15:04:05"),
				Clock: domain.FormatClock(e.Seconds()),
			})
		}
		data.Tasks = append(data.Tasks, rt)
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := textReport.Execute(&textBuf, data); err != nil {
		return "", "", "", err
	}
	if err := htmlReport.Execute(&htmlBuf, data); err != nil {
		return "", "", "", err
	}

	subject = "Timesheet Submission - " + b.Employee.EmployeeName + " - " + b.Date
	return subject, htmlBuf.String(), textBuf.String(), nil
}

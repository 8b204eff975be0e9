package export

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"timestrap/internal/domain"
)

var tableStyle = props.TableList{
	HeaderProp: props.TableListContent{
		Size:      9,
		GridSizes: []uint{3, 3, 2, 2, 2},
	},
	ContentProp: props.TableListContent{
		Size:      9,
		GridSizes: []uint{3, 3, 2, 2, 2},
	},
	Align:                consts.Left,
	AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
	HeaderContentSpace:   1,
	Line:                 false,
}

// TimesheetPDF renders a submitted timesheet as an A4 report.
func TimesheetPDF(b domain.TimesheetBundle) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Timesheet", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s (%s) - %s", b.Employee.EmployeeName, b.Employee.EmployeeID, b.Date), props.Text{
					Top:   2,
					Align: consts.Center,
					Size:  11,
				})
			})
		})
	})

	m.Row(8, func() {
		m.Col(6, func() {
			m.Text(fmt.Sprintf("Shift: %s (target %s)", b.Shift, domain.FormatClock(b.Shift.TargetSeconds())), props.Text{
				Top:  2,
				Size: 10,
			})
		})
		m.Col(6, func() {
			m.Text("Total: "+domain.FormatClock(b.TotalSeconds()), props.Text{
				Top:   2,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  10,
			})
		})
	})

	headers := []string{"Project", "Task", "Tools", "Progress", "Time"}
	rows := make([][]string, 0, len(b.Tasks))
	for _, t := range b.Tasks {
		progress := fmt.Sprintf("%d%%", t.CompletionPercent)
		if t.IsComplete {
			progress += " done"
		}
		rows = append(rows, []string{
			t.Project,
			t.Title,
			domain.JoinTools(t.Tools),
			progress,
			domain.FormatClock(t.Seconds()),
		})
	}
	if len(rows) == 0 {
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text("No tasks recorded", props.Text{Top: 2, Size: 10})
			})
		})
	} else {
		m.TableList(headers, rows, tableStyle)
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render timesheet pdf: %w", err)
	}
	return buf.Bytes(), nil
}

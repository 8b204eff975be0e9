package tracker

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
)

// SheetFile is the YAML description of one working day.
//
//	employee:
//	  id: E001
//	  name: Jane Doe
//	date: 2024-05-01
//	shift: 8hr
//	tasks:
//	  - project: Billing
//	    title: Invoice export
//	    worklogId: 12
//	    tools: [Go]
//	    entries:
//	      - start: 2024-05-01T09:00:00Z
//	        end: 2024-05-01T12:00:00Z
type SheetFile struct {
	Employee struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"employee"`
	Date  string        `yaml:"date"`
	Shift string        `yaml:"shift"`
	Tasks []domain.Task `yaml:"tasks"`
}

// LoadSheetFile reads and parses a sheet file from disk.
func LoadSheetFile(path string) (*SheetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInvalidInputError("file", path, err.Error())
	}
	return ParseSheetFile(data)
}

// ParseSheetFile parses a sheet file. Unknown keys are rejected.
func ParseSheetFile(data []byte) (*SheetFile, error) {
	var f SheetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid sheet file: %v", err), err)
	}
	if f.Shift == "" {
		f.Shift = string(domain.DefaultShift)
	}
	if _, err := domain.ParseShift(f.Shift); err != nil {
		return nil, err
	}
	if f.Date != "" {
		if _, err := domain.ParseDate(f.Date); err != nil {
			return nil, errors.NewInvalidInputError("date", f.Date, "must be YYYY-MM-DD")
		}
	}
	return &f, nil
}

// Save writes the file to path as YAML.
func (f *SheetFile) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode sheet file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewInvalidInputError("file", path, err.Error())
	}
	return nil
}

// Session returns the identity named by the file.
func (f *SheetFile) Session() Session {
	return Session{EmployeeID: f.Employee.ID, EmployeeName: f.Employee.Name}
}

// Capture copies the sheet's tasks back into the file, including the work log ids issued
// by the backend.
func (f *SheetFile) Capture(sheet *Sheet) {
	f.Tasks = sheet.Tasks()
}

// NewSheet builds a sheet from the file. Date and shift come from the file; a zero
// session falls back to the file's employee. Tasks go through AddTask and so follow the
// same rules as interactive edits.
func (f *SheetFile) NewSheet(session Session, opts Options) (*Sheet, error) {
	if session == (Session{}) {
		session = f.Session()
	}
	if f.Date != "" {
		date, err := domain.ParseDate(f.Date)
		if err != nil {
			return nil, err
		}
		opts.Date = date
	}
	opts.Shift = domain.Shift(f.Shift)

	sheet, err := NewSheet(session, opts)
	if err != nil {
		return nil, err
	}
	for i, task := range f.Tasks {
		if _, err := sheet.AddTask(task); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
	}
	return sheet, nil
}

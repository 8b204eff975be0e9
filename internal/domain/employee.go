package domain

import "strings"

// Identity names the employee a tracker session belongs to.
type Identity struct {
	EmployeeID   string `json:"employeeId" yaml:"employee_id"`
	EmployeeName string `json:"employeeName" yaml:"employee_name"`
}

// IsValid checks that both halves of the identity are set.
func (i Identity) IsValid() bool {
	return strings.TrimSpace(i.EmployeeID) != "" && strings.TrimSpace(i.EmployeeName) != ""
}

// Employee is a registered employee.
type Employee struct {
	ID   int64  `json:"id"`
	Code string `json:"employeeId"`
	Name string `json:"employeeName"`
}

// MatchesName compares the given name with the registered one, ignoring case and
// surrounding whitespace.
func (e Employee) MatchesName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(name))
}

// Identity returns the identity of the employee.
func (e Employee) Identity() Identity {
	return Identity{EmployeeID: e.Code, EmployeeName: e.Name}
}

// Project is a named project work can be logged against.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

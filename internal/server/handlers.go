package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"timestrap/internal/api"
	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/export"
	"timestrap/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	api api.BusinessAPI
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(businessAPI api.BusinessAPI) *Handlers {
	return &Handlers{api: businessAPI}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.NewInvalidInputError("body", nil, "request body is not valid JSON")
	}
	return nil
}

func paramID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", raw, "must be a positive integer")
	}
	return id, nil
}

// authorizeWorklog checks that the work log belongs to the authenticated employee
func (h *Handlers) authorizeWorklog(c *fiber.Ctx, id int64) error {
	if c.Locals(IdentityKey) == nil {
		return nil
	}
	w, err := h.api.GetWorkLog(c.UserContext(), id)
	if err != nil {
		return err
	}
	return requireEmployee(c, w.EmployeeCode)
}

// authorizeTimeEntry checks that the entry's work log belongs to the authenticated employee
func (h *Handlers) authorizeTimeEntry(c *fiber.Ctx, id int64) error {
	if c.Locals(IdentityKey) == nil {
		return nil
	}
	worklogID, err := h.api.TimeEntryWorkLog(c.UserContext(), id)
	if err != nil {
		return err
	}
	return h.authorizeWorklog(c, worklogID)
}

// Shifts returns the shift table.
func (h *Handlers) Shifts(c *fiber.Ctx) error {
	return c.JSON(h.api.Shifts())
}

// Login handles employee login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.api.Login(c.UserContext(), req.EmployeeID, req.EmployeeName)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		Success:  true,
		Message:  "Login successful",
		Employee: result.Employee.Identity(),
		Token:    result.Token,
	})
}

// CreateWorklog stores a work log with its time entries.
func (h *Handlers) CreateWorklog(c *fiber.Ctx) error {
	var body WorklogBody
	if err := parseBody(c, &body); err != nil {
		return err
	}
	req := body.request()
	if err := requireEmployee(c, req.EmployeeCode); err != nil {
		return err
	}

	w, err := h.api.CreateWorkLog(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(CreateWorklogResponse{Success: true, WorklogID: w.ID})
}

// ListWorklogs returns every work log.
func (h *Handlers) ListWorklogs(c *fiber.Ctx) error {
	logs, err := h.api.ListWorkLogs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// ListEmployeeWorklogs returns the work logs of one employee.
func (h *Handlers) ListEmployeeWorklogs(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := requireEmployee(c, code); err != nil {
		return err
	}

	logs, err := h.api.ListEmployeeWorkLogs(c.UserContext(), code, c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(EmployeeWorklogsResponse{Success: true, Logs: logs})
}

// GetWorklog returns one work log with its entries.
func (h *Handlers) GetWorklog(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	w, err := h.api.GetWorkLog(c.UserContext(), id)
	if err != nil {
		return err
	}
	if err := requireEmployee(c, w.EmployeeCode); err != nil {
		return err
	}
	return c.JSON(w)
}

// UpdateWorklog replaces the editable fields of a work log.
func (h *Handlers) UpdateWorklog(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body WorklogBody
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := h.authorizeWorklog(c, id); err != nil {
		return err
	}

	if _, err := h.api.UpdateWorkLog(c.UserContext(), id, body.request()); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true})
}

// DeleteWorklog removes a work log.
func (h *Handlers) DeleteWorklog(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.authorizeWorklog(c, id); err != nil {
		return err
	}

	if err := h.api.DeleteWorkLog(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true})
}

// AddTimeEntry appends a time entry to a work log.
func (h *Handlers) AddTimeEntry(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body services.TimeEntryInput
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := h.authorizeWorklog(c, id); err != nil {
		return err
	}

	entry, err := h.api.AddTimeEntry(c.UserContext(), id, body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(CreateTimeEntryResponse{Success: true, TimeEntryID: entry.ID})
}

// UpdateTimeEntry replaces the start and end of a time entry.
func (h *Handlers) UpdateTimeEntry(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body services.TimeEntryInput
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := h.authorizeTimeEntry(c, id); err != nil {
		return err
	}

	if _, err := h.api.UpdateTimeEntry(c.UserContext(), id, body); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true})
}

// DeleteTimeEntry removes a time entry.
func (h *Handlers) DeleteTimeEntry(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.authorizeTimeEntry(c, id); err != nil {
		return err
	}

	if err := h.api.DeleteTimeEntry(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true})
}

// DaySummary returns an employee's accumulated day against a shift.
func (h *Handlers) DaySummary(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := requireEmployee(c, code); err != nil {
		return err
	}

	shift := c.Query("shift", string(domain.DefaultShift))
	summary, err := h.api.DaySummary(c.UserContext(), code, c.Params("date"), shift)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// DayAnalytics returns tool usage, time per task and completion for an employee's day.
func (h *Handlers) DayAnalytics(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := requireEmployee(c, code); err != nil {
		return err
	}

	summary, err := h.api.DaySummary(c.UserContext(), code, c.Params("date"), string(domain.DefaultShift))
	if err != nil {
		return err
	}
	return c.JSON(summary.Analytics)
}

// SubmitTimesheet delivers a timesheet bundle.
func (h *Handlers) SubmitTimesheet(c *fiber.Ctx) error {
	var req SubmitTimesheetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := requireEmployee(c, req.EmployeeID); err != nil {
		return err
	}

	if err := h.api.SubmitTimesheet(c.UserContext(), req.bundle()); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true, Message: "Timesheet submitted"})
}

// ExportExcel streams a workbook of one table, or of every table for "all".
func (h *Handlers) ExportExcel(c *fiber.Ctx) error {
	table, err := export.ParseTable(c.Params("table"))
	if err != nil {
		return err
	}

	data, err := h.api.ExportWorkbook(c.UserContext(), table)
	if err != nil {
		return err
	}

	c.Attachment(table.Filename())
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}

// SendExportEmail mails the work log workbook.
func (h *Handlers) SendExportEmail(c *fiber.Ctx) error {
	var req SendEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.api.EmailWorkbook(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true, Message: "Email sent successfully"})
}

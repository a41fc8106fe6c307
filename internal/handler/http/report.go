package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetEmployeeStats(w http.ResponseWriter, r *http.Request)
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
	ExportMonthlyAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	now           Clock
}

func NewReportHandler(reportService report.ReportService, clock Clock) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		now:           clock,
	}
}

// GetDashboard handles GET /reports/dashboard
func (h *reportHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDashboard(r.Context(), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeStats handles GET /employees/{id}/stats. Employees may only read
// their own figures.
func (h *reportHandlerImpl) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "id")
	if employeeID == "" || employeeID == "me" {
		employeeID = id.UserID
	}
	if employeeID != id.UserID && !id.Role.IsAdmin() {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	result, err := h.reportService.GetEmployeeStats(r.Context(), employeeID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	req, ok := monthlyRequest(w, r, now)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateMonthlyAttendanceReport(r.Context(), req, now)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyAttendance handles GET /attendance/export. The workbook is
// buffered so a failure still renders as a JSON error.
func (h *reportHandlerImpl) ExportMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	req, ok := monthlyRequest(w, r, now)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportMonthlyAttendance(r.Context(), req, now, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%04d-%02d.xlsx", req.Year, req.Month)
	slog.Info("Attendance export generated", "month", req.Month, "year", req.Year, "bytes", buf.Len())
	response.File(w, export.ContentType, filename, buf.Bytes())
}

// monthlyRequest parses month/year/department, defaulting to the current month
func monthlyRequest(w http.ResponseWriter, r *http.Request, now time.Time) (report.MonthlyAttendanceReportRequest, bool) {
	req := report.MonthlyAttendanceReportRequest{
		Month:      int(now.Month()),
		Year:       now.Year(),
		Department: optionalQuery(r, "department"),
	}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return req, false
		}
		req.Month = month
	}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return req, false
		}
		req.Year = year
	}

	return req, true
}

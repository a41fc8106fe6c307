// Package reminder sends the daily check-in and check-out nudges. Both scans
// are idempotent: per-record flags make a repeated run a no-op.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

const (
	checkInTitle    = "Reminder: Please check in"
	checkInMessage  = "You have not checked in yet today. Kindly mark your attendance."
	checkOutTitle   = "Reminder: Please check out"
	checkOutMessage = "You forgot to check out today. Kindly update your attendance."
)

type Config struct {
	CheckInHour  int
	CheckOutHour int
	Location     *time.Location
}

type Service struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRequestRepository
	emitter        notification.Emitter
	cfg            Config
}

func NewService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	emitter notification.Emitter,
	cfg Config,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		emitter:        emitter,
		cfg:            cfg,
	}
}

// CheckInReminders creates today's record for every active employee who has
// none yet and notifies the ones not on approved leave. Returns the number of
// reminders sent. Does nothing before the configured hour.
func (s *Service) CheckInReminders(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.cfg.Location)
	if now.Hour() < s.cfg.CheckInHour {
		return 0, nil
	}
	today, _ := timeutil.DayWindow(now)

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	approved, err := s.leaveRepo.ListApprovedOn(ctx, today, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	onLeave := make(map[string]bool, len(approved))
	for _, l := range approved {
		onLeave[l.EmployeeID] = true
	}

	sent := 0
	for _, emp := range employees {
		status := attendance.StatusAbsent
		if onLeave[emp.ID] {
			status = attendance.StatusOnLeave
		}

		created, err := s.attendanceRepo.CreatePlaceholder(ctx, attendance.Attendance{
			EmployeeID:          emp.ID,
			Day:                 today,
			Breaks:              []attendance.Break{},
			Status:              status,
			CheckInReminderSent: true,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Reminder: failed to create placeholder", "employee_id", emp.ID, "error", err)
			continue
		}
		if !created || status != attendance.StatusAbsent {
			continue
		}

		if s.notify(ctx, emp.ID, checkInTitle, checkInMessage, today, now) {
			sent++
		}
	}

	slog.InfoContext(ctx, "Reminder: check-in scan finished", "date", today.Format(timeutil.DateLayout), "sent", sent)
	return sent, nil
}

// CheckOutReminders notifies employees still checked in after the configured
// hour. The flag is flipped before sending so concurrent scans notify once.
func (s *Service) CheckOutReminders(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.cfg.Location)
	if now.Hour() < s.cfg.CheckOutHour {
		return 0, nil
	}
	today, _ := timeutil.DayWindow(now)

	pending, err := s.attendanceRepo.ListPendingCheckOut(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending check-outs: %w", err)
	}

	sent := 0
	for _, record := range pending {
		flipped, err := s.attendanceRepo.MarkCheckOutReminderSent(ctx, record.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Reminder: failed to flag check-out reminder", "attendance_id", record.ID, "error", err)
			continue
		}
		if !flipped {
			continue
		}

		if s.notify(ctx, record.EmployeeID, checkOutTitle, checkOutMessage, today, now) {
			sent++
		}
	}

	slog.InfoContext(ctx, "Reminder: check-out scan finished", "date", today.Format(timeutil.DateLayout), "sent", sent)
	return sent, nil
}

func (s *Service) notify(ctx context.Context, employeeID, title, message string, day, now time.Time) bool {
	_, err := s.emitter.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: employeeID,
		Title:       title,
		Message:     message,
		Type:        notification.TypeAttendance,
		Metadata: map[string]interface{}{
			"date": day.Format(timeutil.DateLayout),
		},
	}, now)
	if err != nil {
		slog.ErrorContext(ctx, "Reminder: failed to notify", "employee_id", employeeID, "error", err)
		return false
	}
	return true
}

package cron

import (
	"context"
	"log/slog"
	"time"
)

// Reminders is the scan the reminder jobs drive.
type Reminders interface {
	CheckInReminders(ctx context.Context, now time.Time) (int, error)
	CheckOutReminders(ctx context.Context, now time.Time) (int, error)
}

type ReminderJobs struct {
	reminders Reminders
	now       func() time.Time
}

func NewReminderJobs(reminders Reminders) *ReminderJobs {
	return &ReminderJobs{
		reminders: reminders,
		now:       time.Now,
	}
}

// RegisterJobs adds both scans at the given interval. Each scan checks the
// hour itself, so a short interval only costs a cheap no-op.
func (j *ReminderJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("check_in_reminder", interval, j.CheckInReminder)
	scheduler.AddJob("check_out_reminder", interval, j.CheckOutReminder)
}

func (j *ReminderJobs) CheckInReminder(ctx context.Context) error {
	sent, err := j.reminders.CheckInReminders(ctx, j.now())
	if err != nil {
		return err
	}
	if sent > 0 {
		slog.Info("Check-in reminders sent", "count", sent)
	}
	return nil
}

func (j *ReminderJobs) CheckOutReminder(ctx context.Context) error {
	sent, err := j.reminders.CheckOutReminders(ctx, j.now())
	if err != nil {
		return err
	}
	if sent > 0 {
		slog.Info("Check-out reminders sent", "count", sent)
	}
	return nil
}

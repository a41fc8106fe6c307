package memory

// Store bundles the memory repositories so they share one employee table.
type Store struct {
	Employees     *EmployeeRepository
	Attendance    *AttendanceRepository
	LeaveRequests *LeaveRequestRepository
	Notifications *NotificationRepository
	Reports       *ReportRepository
}

func NewStore() *Store {
	employees := NewEmployeeRepository()
	attendance := NewAttendanceRepository(employees)
	leaves := NewLeaveRequestRepository(employees)
	return &Store{
		Employees:     employees,
		Attendance:    attendance,
		LeaveRequests: leaves,
		Notifications: NewNotificationRepository(),
		Reports:       NewReportRepository(employees, attendance, leaves),
	}
}

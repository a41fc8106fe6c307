package employee

import "context"

type ListQuery struct {
	Department *string
	ActiveOnly bool
	Search     *string
	Page       int
	Limit      int
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, query ListQuery) ([]Employee, int64, error)

	// Update persists every mutable field of e. Returns ErrEmployeeNotFound or
	// ErrEmailExists.
	Update(ctx context.Context, e Employee) (Employee, error)

	// ListActive returns every active employee, unpaginated. Used by the
	// reminder scan and reporting.
	ListActive(ctx context.Context) ([]Employee, error)
}

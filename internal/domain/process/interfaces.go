package process

import "context"

// Repository provides persistence for process metadata.
type Repository interface {
	Create(ctx context.Context, proc *Process) error
	// Get, Update and Delete match name ignoring case.
	Get(ctx context.Context, name string) (*Process, error)
	List(ctx context.Context) ([]Process, error)
	Update(ctx context.Context, currentName string, proc *Process) error
	Delete(ctx context.Context, name string) (*Process, error)
}

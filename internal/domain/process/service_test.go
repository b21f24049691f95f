package process_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/repository"
	"github.com/rpggio/procboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreate(name string) process.CreateRequest {
	return process.CreateRequest{
		Name:  name,
		Start: "2024-01-01T00:00:00Z",
		End:   "2024-03-31T00:00:00Z",
	}
}

func TestProcessService_Create(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProcessRepository{}
	repo.On("Get", ctx, "Q1-Audit").Return((*process.Process)(nil), repository.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := process.NewService(repo, nil)
	proc, err := svc.Create(ctx, validCreate("  Q1-Audit "))
	require.NoError(t, err)
	require.NotEmpty(t, proc.ID)
	require.Equal(t, "Q1-Audit", proc.Name)
	require.Equal(t, process.StatusPending, proc.Status)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), proc.Start)
	require.Equal(t, time.UTC, proc.CreatedAt.Location())
	repo.AssertExpectations(t)
}

func TestProcessService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProcessRepository{}
	repo.On("Get", ctx, "Q1-Audit").Return(&process.Process{ID: "p1", Name: "q1-audit"}, nil)

	svc := process.NewService(repo, nil)
	_, err := svc.Create(ctx, validCreate("Q1-Audit"))
	require.ErrorIs(t, err, process.ErrDuplicateName)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessService_CreateRaceMapsUniqueViolation(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProcessRepository{}
	repo.On("Get", ctx, "Q1").Return((*process.Process)(nil), repository.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

	svc := process.NewService(repo, nil)
	_, err := svc.Create(ctx, validCreate("Q1"))
	require.ErrorIs(t, err, process.ErrDuplicateName)
}

func TestProcessService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProcessRepository{}
	svc := process.NewService(repo, nil)

	tests := []struct {
		name string
		req  process.CreateRequest
	}{
		{"missing name", process.CreateRequest{Name: "  ", Start: "2024-01-01", End: "2024-02-01"}},
		{"missing start", process.CreateRequest{Name: "A", End: "2024-02-01"}},
		{"missing end", process.CreateRequest{Name: "A", Start: "2024-02-01"}},
		{"bad start", process.CreateRequest{Name: "A", Start: "soon", End: "2024-02-01"}},
		{"end before start", process.CreateRequest{Name: "A", Start: "2024-02-01", End: "2024-01-01"}},
		{"bad status", process.CreateRequest{Name: "A", Start: "2024-01-01", End: "2024-02-01", Status: "echo"}},
		{"reserved lists suffix", process.CreateRequest{Name: "A_lists", Start: "2024-01-01", End: "2024-02-01"}},
		{"reserved graphs suffix", process.CreateRequest{Name: "A_Graphs", Start: "2024-01-01", End: "2024-02-01"}},
		{"reserved prefix", process.CreateRequest{Name: "sqlite_master", Start: "2024-01-01", End: "2024-02-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.ErrorIs(t, err, process.ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProcessRepository{}
	repo.On("Get", ctx, "missing").Return((*process.Process)(nil), repository.ErrNotFound)

	svc := process.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, process.ErrProcessNotFound)
}

func TestProcessService_UpdateRenameCollision(t *testing.T) {
	ctx := context.Background()
	current := &process.Process{
		ID:    "p1",
		Name:  "Old",
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	repo := &mocks.ProcessRepository{}
	repo.On("Get", ctx, "Old").Return(current, nil)
	repo.On("Get", ctx, "Taken").Return(&process.Process{ID: "p2", Name: "Taken"}, nil)

	svc := process.NewService(repo, nil)
	newName := "Taken"
	_, err := svc.Update(ctx, "Old", process.Patch{Name: &newName})
	require.ErrorIs(t, err, process.ErrDuplicateName)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessService_UpdateAppliesPatch(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := &process.Process{
		ID:        "p1",
		Name:      "Old",
		Start:     created,
		End:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:    process.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}

	repo := &mocks.ProcessRepository{}
	repo.On("Get", ctx, "Old").Return(current, nil)
	repo.On("Get", ctx, "New").Return((*process.Process)(nil), repository.ErrNotFound)
	repo.On("Update", ctx, "Old", mock.MatchedBy(func(p *process.Process) bool {
		return p.Name == "New" && p.Status == process.StatusDone
	})).Return(nil)

	svc := process.NewService(repo, nil)
	newName := " New "
	status := process.StatusDone
	end := "2024-06-30T00:00:00"
	updated, err := svc.Update(ctx, "Old", process.Patch{Name: &newName, Status: &status, End: &end})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Name)
	require.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), updated.End)
	require.True(t, updated.UpdatedAt.After(created))
	require.Equal(t, "Old", current.Name, "current record must not be mutated")
	repo.AssertExpectations(t)
}

func TestProcessService_UpdateEmptyPatch(t *testing.T) {
	svc := process.NewService(&mocks.ProcessRepository{}, nil)
	_, err := svc.Update(context.Background(), "Old", process.Patch{})
	require.ErrorIs(t, err, process.ErrInvalidInput)
}

func TestProcessService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProcessRepository{}
	repo.On("Delete", ctx, "gone").Return((*process.Process)(nil), repository.ErrNotFound)

	svc := process.NewService(repo, nil)
	_, err := svc.Delete(ctx, "gone")
	require.ErrorIs(t, err, process.ErrProcessNotFound)
}

func TestProcessService_ListProjectsSummaries(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProcessRepository{}
	repo.On("List", ctx).Return([]process.Process{
		{ID: "p1", Name: "A", Description: "first", Status: process.StatusDone},
		{ID: "p2", Name: "B", Status: process.StatusPending},
	}, nil)

	svc := process.NewService(repo, nil)
	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "A", summaries[0].Name)
	require.Equal(t, process.StatusDone, summaries[0].Status)
}

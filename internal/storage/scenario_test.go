package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/rpggio/procboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	processes   *process.Service
	coordinator *namespace.Coordinator
	lists       *list.Service
	cards       *card.Service
	charts      *chart.Service
	store       *storage.NamespaceStore
}

// newStack wires the services over separate metadata and namespace databases.
func newStack(t *testing.T) *stack {
	t.Helper()
	metaDB := storage.NewTestDB(t)
	nsDB := storage.NewTestDB(t)

	processes := process.NewService(storage.NewProcessRepository(metaDB), nil)
	store := storage.NewNamespaceStore(nsDB)
	coordinator := namespace.NewCoordinator(store, processes, nil, nil)

	listRepo := storage.NewListRepository(nsDB)
	cardRepo := storage.NewCardRepository(nsDB)
	return &stack{
		processes:   processes,
		coordinator: coordinator,
		lists:       list.NewService(coordinator, listRepo, cardRepo, nil),
		cards:       card.NewService(coordinator, cardRepo, listRepo, nil),
		charts:      chart.NewService(coordinator, storage.NewChartRepository(nsDB), nil),
		store:       store,
	}
}

func (s *stack) exists(t *testing.T, ns string) bool {
	t.Helper()
	ok, err := s.store.Exists(context.Background(), ns)
	require.NoError(t, err)
	return ok
}

func TestScenario_ProcessLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{
		Name:  "Q1-Audit",
		Start: "2024-01-01T00:00:00Z",
		End:   "2024-03-31T00:00:00Z",
	})
	require.NoError(t, err)

	_, err = s.processes.Create(ctx, process.CreateRequest{
		Name:  "Q1-Audit",
		Start: "2024-01-01T00:00:00Z",
		End:   "2024-03-31T00:00:00Z",
	})
	require.ErrorIs(t, err, process.ErrDuplicateName)

	backlog, err := s.lists.Create(ctx, "Q1-Audit", "Backlog")
	require.NoError(t, err)

	review, err := s.cards.Create(ctx, "Q1-Audit", card.CreateRequest{Title: "Review", ListID: backlog.ID})
	require.NoError(t, err)
	require.Nil(t, review.CompletedAt)

	done := card.StatusDone
	review, err = s.cards.Update(ctx, "Q1-Audit", review.ID, card.Patch{Status: &done})
	require.NoError(t, err)
	require.NotNil(t, review.CompletedAt)
	require.NotEmpty(t, *review.CompletionMessage)

	newName := "Q1-Audit-Final"
	proc, report, err := s.coordinator.UpdateProcess(ctx, "Q1-Audit", process.Patch{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Q1-Audit-Final", proc.Name)
	require.False(t, report.HasFailures())

	lists, _ := report.Result(namespace.KindLists)
	require.Equal(t, namespace.OutcomeRenamed, lists.Outcome)
	cards, _ := report.Result(namespace.KindCards)
	require.Equal(t, namespace.OutcomeRenamed, cards.Outcome)
	charts, _ := report.Result(namespace.KindCharts)
	require.Equal(t, namespace.OutcomeSkippedAbsent, charts.Outcome)

	// data follows the rename
	stored, err := s.cards.Get(ctx, "Q1-Audit-Final", review.ID)
	require.NoError(t, err)
	require.Equal(t, review.CompletedAt.UTC(), stored.CompletedAt.UTC())
	_, err = s.cards.List(ctx, "Q1-Audit", card.ListOptions{})
	require.ErrorIs(t, err, process.ErrProcessNotFound)

	deleted, err := s.coordinator.DeleteProcess(ctx, "Q1-Audit-Final")
	require.NoError(t, err)
	require.True(t, deleted.DeletedMetadata())
	lists, _ = deleted.Result(namespace.KindLists)
	require.Equal(t, namespace.OutcomeDropped, lists.Outcome)
	cards, _ = deleted.Result(namespace.KindCards)
	require.Equal(t, namespace.OutcomeDropped, cards.Outcome)

	require.False(t, s.exists(t, "Q1-Audit-Final_lists"))
	require.False(t, s.exists(t, "Q1-Audit-Final"))

	_, err = s.coordinator.DeleteProcess(ctx, "Q1-Audit-Final")
	require.ErrorIs(t, err, process.ErrProcessNotFound)
}

func TestScenario_DeleteListCascadesOnlyItsCards(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Ops", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)

	a, err := s.lists.Create(ctx, "Ops", "A")
	require.NoError(t, err)
	b, err := s.lists.Create(ctx, "Ops", "B")
	require.NoError(t, err)

	for _, listID := range []string{a.ID, a.ID, b.ID} {
		_, err := s.cards.Create(ctx, "Ops", card.CreateRequest{Title: "t", ListID: listID})
		require.NoError(t, err)
	}

	res, err := s.lists.Delete(ctx, "Ops", a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), res.CardsRemoved)

	remaining, err := s.cards.List(ctx, "Ops", card.ListOptions{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, b.ID, remaining[0].ListID)
}

func TestScenario_ReadsDoNotMaterializeNamespaces(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Empty", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)

	lists, err := s.lists.List(ctx, "Empty")
	require.NoError(t, err)
	require.Empty(t, lists)
	charts, err := s.charts.List(ctx, "Empty")
	require.NoError(t, err)
	require.Empty(t, charts)

	for _, kind := range namespace.Kinds() {
		require.False(t, s.exists(t, namespace.Derive("Empty", kind)))
	}

	newName := "Renamed"
	_, report, err := s.coordinator.UpdateProcess(ctx, "Empty", process.Patch{Name: &newName})
	require.NoError(t, err)
	for _, k := range report.Kinds {
		require.Equal(t, namespace.OutcomeSkippedAbsent, k.Outcome)
	}
}

func TestScenario_ConcurrentFirstWrites(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Busy", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.charts.Create(ctx, "Busy", chart.Fields{ChartType: "bar"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	charts, err := s.charts.List(ctx, "Busy")
	require.NoError(t, err)
	require.Len(t, charts, n)
}

func TestScenario_DeleteAfterPartialMetadataDelete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Half", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)
	_, err = s.lists.Create(ctx, "Half", "Backlog")
	require.NoError(t, err)

	// a prior attempt removed only the metadata row
	_, err = s.processes.Delete(ctx, "Half")
	require.NoError(t, err)

	report, err := s.coordinator.DeleteProcess(ctx, "Half")
	require.NoError(t, err)
	require.Equal(t, namespace.MetadataAlreadyAbsent, report.Metadata)
	lists, _ := report.Result(namespace.KindLists)
	require.Equal(t, namespace.OutcomeDropped, lists.Outcome)
	require.False(t, s.exists(t, "Half_lists"))
}

func TestScenario_DeleteByOtherCaseRemovesRegisteredProcess(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Q1-Audit", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)
	l, err := s.lists.Create(ctx, "Q1-Audit", "Backlog")
	require.NoError(t, err)
	_, err = s.cards.Create(ctx, "Q1-Audit", card.CreateRequest{Title: "Scope", ListID: l.ID})
	require.NoError(t, err)

	report, err := s.coordinator.DeleteProcess(ctx, "q1-audit")
	require.NoError(t, err)
	require.Equal(t, namespace.MetadataDeleted, report.Metadata)
	require.False(t, report.HasFailures())

	_, err = s.processes.Get(ctx, "Q1-Audit")
	require.ErrorIs(t, err, process.ErrProcessNotFound)
	require.False(t, s.exists(t, "Q1-Audit_lists"))
	require.False(t, s.exists(t, "Q1-Audit"))

	// the name is free again and starts from empty namespaces
	_, err = s.processes.Create(ctx, process.CreateRequest{Name: "Q1-Audit", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)
	lists, err := s.lists.List(ctx, "Q1-Audit")
	require.NoError(t, err)
	require.Empty(t, lists)
	_, err = s.lists.Create(ctx, "Q1-Audit", "Fresh")
	require.NoError(t, err)
}

func TestScenario_CaseOnlyRename(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Audit", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)
	l, err := s.lists.Create(ctx, "Audit", "Backlog")
	require.NoError(t, err)
	_, err = s.cards.Create(ctx, "Audit", card.CreateRequest{Title: "Scope", ListID: l.ID})
	require.NoError(t, err)

	name := "audit"
	proc, report, err := s.coordinator.UpdateProcess(ctx, "Audit", process.Patch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "audit", proc.Name)
	require.False(t, report.HasFailures())
	lists, _ := report.Result(namespace.KindLists)
	require.Equal(t, namespace.OutcomeRenamed, lists.Outcome)

	got, err := s.lists.List(ctx, "audit")
	require.NoError(t, err)
	require.Len(t, got, 1)
	cards, err := s.cards.List(ctx, "audit", card.ListOptions{})
	require.NoError(t, err)
	require.Len(t, cards, 1)

	retry, err := s.coordinator.RetryRename(ctx, "Audit", "audit")
	require.NoError(t, err)
	require.False(t, retry.HasFailures())
}

func TestScenario_CardWritesRacingListDeleteLeaveNoOrphans(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.processes.Create(ctx, process.CreateRequest{Name: "Race", Start: "2024-01-01", End: "2024-12-31"})
	require.NoError(t, err)
	doomed, err := s.lists.Create(ctx, "Race", "Doomed")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n + 1)
	go func() {
		defer wg.Done()
		_, err := s.lists.Delete(ctx, "Race", doomed.ID)
		assert.NoError(t, err)
	}()
	for range n {
		go func() {
			defer wg.Done()
			_, err := s.cards.Create(ctx, "Race", card.CreateRequest{Title: "t", ListID: doomed.ID})
			if err != nil {
				assert.ErrorIs(t, err, card.ErrInvalidInput)
			}
		}()
	}
	wg.Wait()

	remaining, err := s.cards.List(ctx, "Race", card.ListOptions{ListID: doomed.ID})
	require.NoError(t, err)
	require.Empty(t, remaining)
}

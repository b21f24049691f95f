package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/stretchr/testify/require"
)

type processStub struct {
	createFn func(context.Context, process.CreateRequest) (*process.Process, error)
	getFn    func(context.Context, string) (*process.Process, error)
	listFn   func(context.Context) ([]process.Summary, error)
}

func (p processStub) Create(ctx context.Context, req process.CreateRequest) (*process.Process, error) {
	return p.createFn(ctx, req)
}
func (p processStub) Get(ctx context.Context, name string) (*process.Process, error) {
	return p.getFn(ctx, name)
}
func (p processStub) List(ctx context.Context) ([]process.Summary, error) {
	return p.listFn(ctx)
}

type coordinatorStub struct {
	updateFn func(context.Context, string, process.Patch) (*process.Process, *namespace.RenameReport, error)
	retryFn  func(context.Context, string, string) (*namespace.RenameReport, error)
	deleteFn func(context.Context, string) (*namespace.DeleteReport, error)
}

func (c coordinatorStub) UpdateProcess(ctx context.Context, name string, patch process.Patch) (*process.Process, *namespace.RenameReport, error) {
	return c.updateFn(ctx, name, patch)
}
func (c coordinatorStub) RetryRename(ctx context.Context, oldName, newName string) (*namespace.RenameReport, error) {
	return c.retryFn(ctx, oldName, newName)
}
func (c coordinatorStub) DeleteProcess(ctx context.Context, name string) (*namespace.DeleteReport, error) {
	return c.deleteFn(ctx, name)
}

type listStub struct {
	listFn   func(context.Context, string) ([]list.List, error)
	createFn func(context.Context, string, string) (*list.List, error)
	updateFn func(context.Context, string, string, string) (*list.List, error)
	deleteFn func(context.Context, string, string) (*list.DeleteResult, error)
}

func (l listStub) List(ctx context.Context, proc string) ([]list.List, error) {
	return l.listFn(ctx, proc)
}
func (l listStub) Create(ctx context.Context, proc, title string) (*list.List, error) {
	return l.createFn(ctx, proc, title)
}
func (l listStub) Update(ctx context.Context, proc, id, title string) (*list.List, error) {
	return l.updateFn(ctx, proc, id, title)
}
func (l listStub) Delete(ctx context.Context, proc, id string) (*list.DeleteResult, error) {
	return l.deleteFn(ctx, proc, id)
}

type cardStub struct {
	listFn   func(context.Context, string, card.ListOptions) ([]card.Card, error)
	getFn    func(context.Context, string, string) (*card.Card, error)
	createFn func(context.Context, string, card.CreateRequest) (*card.Card, error)
	updateFn func(context.Context, string, string, card.Patch) (*card.Card, error)
	deleteFn func(context.Context, string, string) (*card.Card, error)
}

func (c cardStub) List(ctx context.Context, proc string, opts card.ListOptions) ([]card.Card, error) {
	return c.listFn(ctx, proc, opts)
}
func (c cardStub) Get(ctx context.Context, proc, id string) (*card.Card, error) {
	return c.getFn(ctx, proc, id)
}
func (c cardStub) Create(ctx context.Context, proc string, req card.CreateRequest) (*card.Card, error) {
	return c.createFn(ctx, proc, req)
}
func (c cardStub) Update(ctx context.Context, proc, id string, patch card.Patch) (*card.Card, error) {
	return c.updateFn(ctx, proc, id, patch)
}
func (c cardStub) Delete(ctx context.Context, proc, id string) (*card.Card, error) {
	return c.deleteFn(ctx, proc, id)
}

type chartStub struct {
	listFn   func(context.Context, string) ([]chart.Chart, error)
	createFn func(context.Context, string, chart.Fields) (*chart.Chart, error)
	updateFn func(context.Context, string, string, chart.Patch) (*chart.Chart, error)
	deleteFn func(context.Context, string, string) (*chart.Chart, error)
}

func (c chartStub) List(ctx context.Context, proc string) ([]chart.Chart, error) {
	return c.listFn(ctx, proc)
}
func (c chartStub) Create(ctx context.Context, proc string, f chart.Fields) (*chart.Chart, error) {
	return c.createFn(ctx, proc, f)
}
func (c chartStub) Update(ctx context.Context, proc, id string, patch chart.Patch) (*chart.Chart, error) {
	return c.updateFn(ctx, proc, id, patch)
}
func (c chartStub) Delete(ctx context.Context, proc, id string) (*chart.Chart, error) {
	return c.deleteFn(ctx, proc, id)
}

func TestHandler_ProcessCommands(t *testing.T) {
	ctx := context.Background()

	var created process.CreateRequest
	var patched process.Patch
	handler := NewHandler(Services{
		Processes: processStub{
			createFn: func(_ context.Context, req process.CreateRequest) (*process.Process, error) {
				created = req
				return &process.Process{Name: req.Name}, nil
			},
			listFn: func(_ context.Context) ([]process.Summary, error) {
				return []process.Summary{{Name: "Alpha"}}, nil
			},
			getFn: func(_ context.Context, name string) (*process.Process, error) {
				return &process.Process{Name: name}, nil
			},
		},
		Coordinator: coordinatorStub{
			updateFn: func(_ context.Context, name string, patch process.Patch) (*process.Process, *namespace.RenameReport, error) {
				patched = patch
				return &process.Process{Name: *patch.Name}, &namespace.RenameReport{
					OldName: name,
					NewName: *patch.Name,
					Kinds:   []namespace.KindResult{{Kind: namespace.KindLists, Outcome: namespace.OutcomeFailed}},
				}, nil
			},
			retryFn: func(_ context.Context, oldName, newName string) (*namespace.RenameReport, error) {
				return &namespace.RenameReport{OldName: oldName, NewName: newName}, nil
			},
			deleteFn: func(_ context.Context, name string) (*namespace.DeleteReport, error) {
				return &namespace.DeleteReport{Name: name, Metadata: namespace.MetadataDeleted}, nil
			},
		},
	})

	_, err := handler.Handle(ctx, "create_process", mustJSON(t, CreateProcessParams{Name: "Alpha", Start: "2024-01-01T00:00:00", End: "2024-02-01T00:00:00", Status: "done"}))
	require.NoError(t, err)
	require.Equal(t, "Alpha", created.Name)
	require.Equal(t, process.StatusDone, created.Status)

	out, err := handler.Handle(ctx, "list_processes", nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	out, err = handler.Handle(ctx, "get_process", mustJSON(t, ProcessParams{Process: "Alpha"}))
	require.NoError(t, err)
	require.Equal(t, "Alpha", out.(*process.Process).Name)

	newName := "Beta"
	status := "in_progress"
	out, err = handler.Handle(ctx, "update_process", mustJSON(t, UpdateProcessParams{Process: "Alpha", Name: &newName, Status: &status}))
	require.NoError(t, err)
	resp := out.(UpdateProcessResponse)
	require.True(t, resp.PartialFailure)
	require.Equal(t, "Beta", resp.Process.Name)
	require.NotNil(t, patched.Status)
	require.Equal(t, process.StatusInProgress, *patched.Status)

	out, err = handler.Handle(ctx, "retry_rename", mustJSON(t, RetryRenameParams{OldName: "Alpha", NewName: "Beta"}))
	require.NoError(t, err)
	require.False(t, out.(RetryRenameResponse).PartialFailure)

	out, err = handler.Handle(ctx, "delete_process", mustJSON(t, ProcessParams{Process: "Beta"}))
	require.NoError(t, err)
	require.Equal(t, namespace.MetadataDeleted, out.(DeleteProcessResponse).Report.Metadata)
}

func TestHandler_ResourceCommands(t *testing.T) {
	ctx := context.Background()

	var createdCard card.CreateRequest
	var cardPatch card.Patch
	var listOpts card.ListOptions
	handler := NewHandler(Services{
		Lists: listStub{
			listFn: func(_ context.Context, _ string) ([]list.List, error) { return []list.List{}, nil },
			createFn: func(_ context.Context, _ string, title string) (*list.List, error) {
				return &list.List{ID: "l1", Title: title}, nil
			},
			updateFn: func(_ context.Context, _ string, id, title string) (*list.List, error) {
				return &list.List{ID: id, Title: title}, nil
			},
			deleteFn: func(_ context.Context, _ string, id string) (*list.DeleteResult, error) {
				return &list.DeleteResult{List: &list.List{ID: id}, CardsRemoved: 2}, nil
			},
		},
		Cards: cardStub{
			listFn: func(_ context.Context, _ string, opts card.ListOptions) ([]card.Card, error) {
				listOpts = opts
				return []card.Card{}, nil
			},
			getFn: func(_ context.Context, _ string, id string) (*card.Card, error) {
				return &card.Card{ID: id}, nil
			},
			createFn: func(_ context.Context, _ string, req card.CreateRequest) (*card.Card, error) {
				createdCard = req
				return &card.Card{ID: "c1"}, nil
			},
			updateFn: func(_ context.Context, _ string, id string, patch card.Patch) (*card.Card, error) {
				cardPatch = patch
				return &card.Card{ID: id}, nil
			},
			deleteFn: func(_ context.Context, _ string, id string) (*card.Card, error) {
				return &card.Card{ID: id}, nil
			},
		},
		Charts: chartStub{
			listFn: func(_ context.Context, _ string) ([]chart.Chart, error) { return []chart.Chart{}, nil },
			createFn: func(_ context.Context, _ string, f chart.Fields) (*chart.Chart, error) {
				return &chart.Chart{ID: "g1", ChartType: f.ChartType}, nil
			},
			updateFn: func(_ context.Context, _ string, id string, _ chart.Patch) (*chart.Chart, error) {
				return &chart.Chart{ID: id}, nil
			},
			deleteFn: func(_ context.Context, _ string, id string) (*chart.Chart, error) {
				return &chart.Chart{ID: id}, nil
			},
		},
	})

	_, err := handler.Handle(ctx, "list_lists", mustJSON(t, ProcessParams{Process: "Alpha"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "create_list", mustJSON(t, CreateListParams{Process: "Alpha", Title: "Todo"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "update_list", mustJSON(t, UpdateListParams{Process: "Alpha", ID: "l1", Title: "Doing"}))
	require.NoError(t, err)
	out, err := handler.Handle(ctx, "delete_list", mustJSON(t, ResourceParams{Process: "Alpha", ID: "l1"}))
	require.NoError(t, err)
	require.Equal(t, int64(2), out.(DeleteListResponse).CardsRemoved)

	_, err = handler.Handle(ctx, "list_cards", mustJSON(t, ListCardsParams{Process: "Alpha", ListID: "l1"}))
	require.NoError(t, err)
	require.Equal(t, "l1", listOpts.ListID)
	_, err = handler.Handle(ctx, "get_card", mustJSON(t, ResourceParams{Process: "Alpha", ID: "c1"}))
	require.NoError(t, err)

	body := json.RawMessage(`{"list_id":"l1","title":"Ship","priority":3}`)
	_, err = handler.Handle(ctx, "create_card", mustJSON(t, CardParams{Process: "Alpha", Card: body}))
	require.NoError(t, err)
	require.Equal(t, "Ship", createdCard.Title)
	require.Equal(t, float64(3), createdCard.Extra["priority"])

	_, err = handler.Handle(ctx, "update_card", mustJSON(t, CardParams{Process: "Alpha", ID: "c1", Card: json.RawMessage(`{"status":"done"}`)}))
	require.NoError(t, err)
	require.NotNil(t, cardPatch.Status)
	require.Equal(t, card.StatusDone, *cardPatch.Status)

	_, err = handler.Handle(ctx, "delete_card", mustJSON(t, ResourceParams{Process: "Alpha", ID: "c1"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, "list_charts", mustJSON(t, ProcessParams{Process: "Alpha"}))
	require.NoError(t, err)
	out, err = handler.Handle(ctx, "create_chart", mustJSON(t, CreateChartParams{Process: "Alpha", ChartType: "bar"}))
	require.NoError(t, err)
	require.Equal(t, "bar", out.(*chart.Chart).ChartType)
	_, err = handler.Handle(ctx, "update_chart", mustJSON(t, UpdateChartParams{Process: "Alpha", ID: "g1"}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, "delete_chart", mustJSON(t, ResourceParams{Process: "Alpha", ID: "g1"}))
	require.NoError(t, err)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	handler := NewHandler(Services{
		Processes: processStub{
			getFn: func(_ context.Context, _ string) (*process.Process, error) {
				return nil, process.ErrProcessNotFound
			},
			createFn: func(_ context.Context, _ process.CreateRequest) (*process.Process, error) {
				return nil, errors.Join(errors.New("insert"), process.ErrDuplicateName)
			},
		},
		Lists: listStub{
			createFn: func(_ context.Context, _ string, _ string) (*list.List, error) {
				return nil, list.ErrInvalidInput
			},
		},
	})

	tests := []struct {
		method string
		params json.RawMessage
		code   string
	}{
		{"get_process", mustJSON(t, ProcessParams{Process: "ghost"}), "PROCESS_NOT_FOUND"},
		{"create_process", mustJSON(t, CreateProcessParams{Name: "Alpha"}), "DUPLICATE_NAME"},
		{"create_list", mustJSON(t, CreateListParams{Process: "Alpha"}), "VALIDATION_ERROR"},
		{"create_list", json.RawMessage(`{"process":`), "VALIDATION_ERROR"},
		{"create_card", mustJSON(t, CardParams{Process: "Alpha"}), "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.method+"/"+tt.code, func(t *testing.T) {
			_, err := handler.Handle(ctx, tt.method, tt.params)
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.code, apiErr.Code)
		})
	}

	_, err := handler.Handle(ctx, "no_such_tool", nil)
	require.ErrorContains(t, err, "unknown method")
}

func TestToolCatalogCoversHandler(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range buildToolCatalog() {
		require.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"])
		require.NotEmpty(t, def.Description)
	}
	for _, name := range []string{
		"create_process", "list_processes", "get_process", "update_process", "retry_rename", "delete_process",
		"list_lists", "create_list", "update_list", "delete_list",
		"list_cards", "get_card", "create_card", "update_card", "delete_card",
		"list_charts", "create_chart", "update_chart", "delete_chart",
	} {
		require.True(t, seen[name], "missing tool %s", name)
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/process"
)

var errInvalidParams = errors.New("invalid params")

// Handler dispatches MCP tool calls to domain services.
type Handler struct {
	processes   ProcessService
	coordinator Coordinator
	lists       ListService
	cards       CardService
	charts      ChartService
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services) *Handler {
	return &Handler{
		processes:   svc.Processes,
		coordinator: svc.Coordinator,
		lists:       svc.Lists,
		cards:       svc.Cards,
		charts:      svc.Charts,
	}
}

// Handle runs one tool by name. Domain errors come back as *APIError.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_process":
		var req CreateProcessParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.processes.Create(ctx, process.CreateRequest{
			Name:        req.Name,
			Description: req.Description,
			Start:       req.Start,
			End:         req.End,
			Status:      process.Status(req.Status),
		})
	case "list_processes":
		return h.processes.List(ctx)
	case "get_process":
		var req ProcessParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.processes.Get(ctx, req.Process)
	case "update_process":
		var req UpdateProcessParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		patch := process.Patch{
			Name:        req.Name,
			Description: req.Description,
			Start:       req.Start,
			End:         req.End,
		}
		if req.Status != nil {
			st := process.Status(*req.Status)
			patch.Status = &st
		}
		updated, report, err := h.coordinator.UpdateProcess(ctx, req.Process, patch)
		if err != nil {
			return nil, err
		}
		return UpdateProcessResponse{
			Process:        updated,
			Rename:         report,
			PartialFailure: report != nil && report.HasFailures(),
		}, nil
	case "retry_rename":
		var req RetryRenameParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		report, err := h.coordinator.RetryRename(ctx, req.OldName, req.NewName)
		if err != nil {
			return nil, err
		}
		return RetryRenameResponse{Rename: report, PartialFailure: report.HasFailures()}, nil
	case "delete_process":
		var req ProcessParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		report, err := h.coordinator.DeleteProcess(ctx, req.Process)
		if err != nil {
			return nil, err
		}
		return DeleteProcessResponse{Report: report, PartialFailure: report.HasFailures()}, nil

	case "list_lists":
		var req ProcessParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.lists.List(ctx, req.Process)
	case "create_list":
		var req CreateListParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.lists.Create(ctx, req.Process, req.Title)
	case "update_list":
		var req UpdateListParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.lists.Update(ctx, req.Process, req.ID, req.Title)
	case "delete_list":
		var req ResourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := h.lists.Delete(ctx, req.Process, req.ID)
		if err != nil {
			return nil, err
		}
		return DeleteListResponse{Deleted: res.List, CardsRemoved: res.CardsRemoved}, nil

	case "list_cards":
		var req ListCardsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.cards.List(ctx, req.Process, card.ListOptions{ListID: req.ListID})
	case "get_card":
		var req ResourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.cards.Get(ctx, req.Process, req.ID)
	case "create_card":
		var req CardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if isMissing(req.Card) {
			return nil, fmt.Errorf("%w: card is required", errInvalidParams)
		}
		in, err := card.DecodeCreateRequest(req.Card)
		if err != nil {
			return nil, err
		}
		return h.cards.Create(ctx, req.Process, in)
	case "update_card":
		var req CardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if isMissing(req.Card) {
			return nil, fmt.Errorf("%w: card is required", errInvalidParams)
		}
		patch, err := card.DecodePatch(req.Card)
		if err != nil {
			return nil, err
		}
		return h.cards.Update(ctx, req.Process, req.ID, patch)
	case "delete_card":
		var req ResourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.cards.Delete(ctx, req.Process, req.ID)

	case "list_charts":
		var req ProcessParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.charts.List(ctx, req.Process)
	case "create_chart":
		var req CreateChartParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.charts.Create(ctx, req.Process, chart.Fields{
			ChartType: req.ChartType,
			Filter:    req.Filter,
			Period:    req.Period,
		})
	case "update_chart":
		var req UpdateChartParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.charts.Update(ctx, req.Process, req.ID, chart.Patch{
			ChartType: req.ChartType,
			Filter:    req.Filter,
			Period:    req.Period,
		})
	case "delete_chart":
		var req ResourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.charts.Delete(ctx, req.Process, req.ID)
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

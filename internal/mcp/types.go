package mcp

import (
	"encoding/json"

	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
)

type CreateProcessParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status,omitempty"`
}

type ProcessParams struct {
	Process string `json:"process"`
}

type UpdateProcessParams struct {
	Process     string  `json:"process"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Start       *string `json:"start,omitempty"`
	End         *string `json:"end,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type RetryRenameParams struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

type CreateListParams struct {
	Process string `json:"process"`
	Title   string `json:"title"`
}

type UpdateListParams struct {
	Process string `json:"process"`
	ID      string `json:"id"`
	Title   string `json:"title"`
}

type ResourceParams struct {
	Process string `json:"process"`
	ID      string `json:"id"`
}

type ListCardsParams struct {
	Process string `json:"process"`
	ListID  string `json:"list_id,omitempty"`
}

// CardParams carries a card body as raw JSON so open-schema attributes survive.
type CardParams struct {
	Process string          `json:"process"`
	ID      string          `json:"id,omitempty"`
	Card    json.RawMessage `json:"card"`
}

type CreateChartParams struct {
	Process   string `json:"process"`
	ChartType string `json:"chart_type,omitempty"`
	Filter    string `json:"filter,omitempty"`
	Period    string `json:"period,omitempty"`
}

type UpdateChartParams struct {
	Process   string  `json:"process"`
	ID        string  `json:"id"`
	ChartType *string `json:"chart_type,omitempty"`
	Filter    *string `json:"filter,omitempty"`
	Period    *string `json:"period,omitempty"`
}

// UpdateProcessResponse carries the committed record and, for renames, the
// per-kind namespace outcome.
type UpdateProcessResponse struct {
	Process        *process.Process        `json:"process"`
	Rename         *namespace.RenameReport `json:"rename,omitempty"`
	PartialFailure bool                    `json:"partial_failure"`
}

type RetryRenameResponse struct {
	Rename         *namespace.RenameReport `json:"rename"`
	PartialFailure bool                    `json:"partial_failure"`
}

type DeleteProcessResponse struct {
	Report         *namespace.DeleteReport `json:"report"`
	PartialFailure bool                    `json:"partial_failure"`
}

type DeleteListResponse struct {
	Deleted *list.List `json:"deleted"`
	// CardsRemoved counts the cards dropped with the list.
	CardsRemoved int64 `json:"cards_removed"`
}

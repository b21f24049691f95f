package card

import (
	"encoding/json"
	"time"
)

// Status represents the workflow state of a card
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Assignee is the team a card is assigned to.
type Assignee string

const (
	AssigneeDSI             Assignee = "DSI"
	AssigneeInfraestructura Assignee = "Infraestructura"
	AssigneeContabilidad    Assignee = "Contabilidad"
	AssigneeOperaciones     Assignee = "Operaciones"
	AssigneeRedes           Assignee = "Redes"
	AssigneeTrade           Assignee = "Trade"
	AssigneeDragonTaill     Assignee = "DragonTaill"
)

// Assignees lists every accepted assignee.
func Assignees() []Assignee {
	return []Assignee{
		AssigneeDSI,
		AssigneeInfraestructura,
		AssigneeContabilidad,
		AssigneeOperaciones,
		AssigneeRedes,
		AssigneeTrade,
		AssigneeDragonTaill,
	}
}

// Valid reports whether a is empty or one of the accepted assignees.
func (a Assignee) Valid() bool {
	if a == "" {
		return true
	}
	for _, known := range Assignees() {
		if a == known {
			return true
		}
	}
	return false
}

// Card is a unit of work inside a list. Attributes beyond the typed fields
// are kept in Extra and serialized alongside them.
type Card struct {
	ID                string         `json:"id"`
	ListID            string         `json:"list_id"`
	Title             string         `json:"title"`
	Assignee          Assignee       `json:"assignee,omitempty"`
	Description       string         `json:"description,omitempty"`
	Status            Status         `json:"status"`
	Start             *time.Time     `json:"start,omitempty"`
	Due               *time.Time     `json:"due,omitempty"`
	CompletedAt       *time.Time     `json:"completed_at"`
	CompletionMessage *string        `json:"completion_message"`
	Extra             map[string]any `json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type cardFields Card

// MarshalJSON flattens Extra into the card object. Typed fields win over
// extra attributes with the same key.
func (c Card) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(cardFields(c))
	if err != nil || len(c.Extra) == 0 {
		return base, err
	}

	var typed map[string]json.RawMessage
	if err := json.Unmarshal(base, &typed); err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(typed)+len(c.Extra))
	for k, v := range c.Extra {
		merged[k] = v
	}
	for k, v := range typed {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// ListOptions filters card listings.
type ListOptions struct {
	ListID string
}

package chart

import "time"

// Chart is a saved chart definition in a process's charts namespace.
type Chart struct {
	ID        string    `json:"id"`
	ChartType string    `json:"chart_type"`
	Filter    string    `json:"filter"`
	Period    string    `json:"period"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields carries chart attributes for create. None is required.
type Fields struct {
	ChartType string
	Filter    string
	Period    string
}

// Patch is a partial chart update. Nil fields are left unchanged.
type Patch struct {
	ChartType *string
	Filter    *string
	Period    *string
}

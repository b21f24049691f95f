package chart

import "errors"

// ErrChartNotFound indicates the chart doesn't exist.
var ErrChartNotFound = errors.New("chart not found")

package dto

import (
	"github.com/soundprediction/kgview/pkg/graph"
	"github.com/soundprediction/kgview/pkg/types"
)

// Result represents a generic API result. State is the presentational
// status: loaded, empty or error.
type Result struct {
	Success bool             `json:"success"`
	State   types.ViewStatus `json:"state"`
	Data    interface{}      `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Loaded wraps data with the loaded or empty state.
func Loaded(data interface{}, empty bool) Result {
	state := types.StatusLoaded
	if empty {
		state = types.StatusEmpty
	}
	return Result{Success: true, State: state, Data: data}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string           `json:"error"`
	Message string           `json:"message,omitempty"`
	Code    int              `json:"code,omitempty"`
	State   types.ViewStatus `json:"state"`
}

// SearchQuery holds the query string of GET /api/v1/search
type SearchQuery struct {
	Q        string `form:"q"`
	Source   string `form:"source"`
	Start    string `form:"start"`
	End      string `form:"end"`
	Page     int    `form:"page" binding:"omitempty,min=1,max=10000"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Criteria parses the filter parameters.
func (q *SearchQuery) Criteria() (types.SearchFilterCriteria, error) {
	var criteria types.SearchFilterCriteria

	source, err := types.ParseSourceType(q.Source)
	if err != nil {
		return criteria, err
	}
	criteria.Source = source

	if criteria.StartDate, err = types.ParseDate(q.Start); err != nil {
		return criteria, err
	}
	if criteria.EndDate, err = types.ParseDate(q.End); err != nil {
		return criteria, err
	}
	return criteria, criteria.Validate()
}

// GraphViewQuery holds the query string of GET /api/v1/graph/view. A
// missing toggle counts as enabled.
type GraphViewQuery struct {
	Document *bool  `form:"document"`
	Person   *bool  `form:"person"`
	Topic    *bool  `form:"topic"`
	Text     string `form:"text"`
}

// Toggles returns the type toggles described by the query.
func (q *GraphViewQuery) Toggles() graph.Toggles {
	enabled := func(v *bool) bool { return v == nil || *v }
	return graph.Toggles{
		Document: enabled(q.Document),
		Person:   enabled(q.Person),
		Topic:    enabled(q.Topic),
	}
}

// ThemeRequest is the body of PUT /api/v1/preferences/theme
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// ThemeResponse carries the current theme
type ThemeResponse struct {
	Theme types.Theme `json:"theme"`
}

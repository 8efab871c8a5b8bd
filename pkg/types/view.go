package types

import (
	"fmt"
	"strings"
)

// ViewStatus is the presentational state of a data view. Exactly one
// status applies at a time.
type ViewStatus string

const (
	StatusLoading ViewStatus = "loading"
	StatusError   ViewStatus = "error"
	StatusEmpty   ViewStatus = "empty"
	StatusLoaded  ViewStatus = "loaded"
)

// ViewState carries the status together with the error message or the
// item count, whichever applies.
type ViewState struct {
	Status ViewStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
	Count  int        `json:"count"`
}

// Loading is the state while a request is in flight.
func Loading() ViewState {
	return ViewState{Status: StatusLoading}
}

// Failed is the state after a request failed; the message is shown verbatim.
func Failed(err error) ViewState {
	return ViewState{Status: StatusError, Error: ErrorMessage(err)}
}

// Loaded is the state after data arrived. Zero items yields StatusEmpty.
func Loaded(count int) ViewState {
	if count == 0 {
		return ViewState{Status: StatusEmpty}
	}
	return ViewState{Status: StatusLoaded, Count: count}
}

func (v ViewState) IsLoading() bool { return v.Status == StatusLoading }
func (v ViewState) HasError() bool  { return v.Status == StatusError }
func (v ViewState) IsEmpty() bool   { return v.Status == StatusEmpty }

// Theme is the persisted UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, value)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

package types

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// SourceType identifies the knowledge source a record or citation came from.
type SourceType string

const (
	SourceSlack      SourceType = "Slack"
	SourceNotion     SourceType = "Notion"
	SourceGitHub     SourceType = "GitHub"
	SourceConfluence SourceType = "Confluence"
)

// SourceTypes returns the closed set of known sources in display order.
func SourceTypes() []SourceType {
	return []SourceType{SourceSlack, SourceNotion, SourceGitHub, SourceConfluence}
}

// Valid reports whether s is one of the known sources.
func (s SourceType) Valid() bool {
	return slices.Contains(SourceTypes(), s)
}

// ParseSourceType resolves a user supplied source name case-insensitively.
// An empty value or "All" means no source filter and returns "".
func ParseSourceType(value string) (SourceType, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "all") {
		return "", nil
	}
	for _, s := range SourceTypes() {
		if strings.EqualFold(string(s), v) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSourceType, value)
}

// Citation points at the source material backing an answer.
type Citation struct {
	Source   SourceType `json:"source" yaml:"source" validate:"required,oneof=Slack Notion GitHub Confluence"`
	Title    string     `json:"title" yaml:"title" validate:"required"`
	URL      string     `json:"url" yaml:"url" validate:"omitempty,url"`
	Date     time.Time  `json:"date" yaml:"date"`
	AuthorID string     `json:"authorId,omitempty" yaml:"authorId,omitempty"`
	Repo     string     `json:"repo,omitempty" yaml:"repo,omitempty"`
	PageID   string     `json:"pageId,omitempty" yaml:"pageId,omitempty"`
	Channel  string     `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// QARecord is one question/answer entry of the search corpus.
type QARecord struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Question    string       `json:"question" yaml:"question" validate:"required"`
	Answer      string       `json:"answer" yaml:"answer"`
	Confidence  float64      `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
	Citations   []Citation   `json:"citations" yaml:"citations" validate:"dive"`
	Related     []string     `json:"related" yaml:"related"`
	Date        time.Time    `json:"date" yaml:"date"`
	Topics      []string     `json:"topics" yaml:"topics"`
	SourceTypes []SourceType `json:"sourceTypes" yaml:"sourceTypes" validate:"dive,oneof=Slack Notion GitHub Confluence"`
}

// Validate checks the invariants a record must hold after loading.
func (r *QARecord) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.Question) == "" {
		return ErrEmptyQuestion
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return ErrInvalidConfidence
	}
	for _, s := range r.SourceTypes {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidSourceType, s)
		}
	}
	for _, c := range r.Citations {
		if !c.Source.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidSourceType, c.Source)
		}
	}
	return nil
}

// HasSource reports whether s appears in the record's source types or as
// the source of one of its citations.
func (r *QARecord) HasSource(s SourceType) bool {
	if slices.Contains(r.SourceTypes, s) {
		return true
	}
	for _, c := range r.Citations {
		if c.Source == s {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices.
func (r QARecord) Clone() QARecord {
	r.Citations = slices.Clone(r.Citations)
	r.Related = slices.Clone(r.Related)
	r.Topics = slices.Clone(r.Topics)
	r.SourceTypes = slices.Clone(r.SourceTypes)
	return r
}

// CloneRecords deep-copies a record slice.
func CloneRecords(records []QARecord) []QARecord {
	if records == nil {
		return nil
	}
	out := make([]QARecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// SearchFilterCriteria narrows the corpus before ranking. Zero values mean
// "no constraint".
type SearchFilterCriteria struct {
	Source    SourceType `json:"source,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Validate checks the source value and date ordering.
func (c SearchFilterCriteria) Validate() error {
	if c.Source != "" && !c.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSourceType, c.Source)
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// DateLayout is the calendar date format accepted for filter bounds.
const DateLayout = "2006-01-02"

// ParseDate parses a filter bound given as yyyy-mm-dd or RFC3339. Calendar
// dates are taken as UTC midnight. An empty value yields nil.
func ParseDate(value string) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected yyyy-mm-dd", value)
	}
	return &t, nil
}

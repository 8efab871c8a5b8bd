package types

import "slices"

// DashboardMetrics are the headline numbers of the dashboard.
type DashboardMetrics struct {
	DocsIndexed       int     `json:"docsIndexed" yaml:"docsIndexed" validate:"gte=0"`
	QuestionsAnswered int     `json:"questionsAnswered" yaml:"questionsAnswered" validate:"gte=0"`
	TimeSavedHours    float64 `json:"timeSavedHours" yaml:"timeSavedHours" validate:"gte=0"`
	HealthScore       float64 `json:"healthScore" yaml:"healthScore" validate:"gte=0,lte=100"`
}

// SearchVolumePoint is one day of search volume. Date is a yyyy-mm-dd
// calendar day.
type SearchVolumePoint struct {
	Date  string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Count int       `json:"count" yaml:"count" validate:"gte=0"`
}

// TopTopic is a topic with its query count.
type TopTopic struct {
	Topic string `json:"topic" yaml:"topic" validate:"required"`
	Count int    `json:"count" yaml:"count" validate:"gte=0"`
}

// PieSlice is one slice of the knowledge-gap chart.
type PieSlice struct {
	Label string  `json:"label" yaml:"label" validate:"required"`
	Value float64 `json:"value" yaml:"value" validate:"gte=0"`
}

// DashboardData is the full dashboard payload.
type DashboardData struct {
	Metrics      DashboardMetrics    `json:"metrics" yaml:"metrics"`
	SearchVolume []SearchVolumePoint `json:"searchVolume" yaml:"searchVolume" validate:"dive"`
	TopTopics    []TopTopic          `json:"topTopics" yaml:"topTopics" validate:"dive"`
	GapsByType   []PieSlice          `json:"gapsByType" yaml:"gapsByType" validate:"dive"`
}

// Clone returns a deep copy of the dashboard payload.
func (d DashboardData) Clone() DashboardData {
	d.SearchVolume = slices.Clone(d.SearchVolume)
	d.TopTopics = slices.Clone(d.TopTopics)
	d.GapsByType = slices.Clone(d.GapsByType)
	return d
}

// IsEmpty reports whether the dashboard carries no chart data at all.
func (d *DashboardData) IsEmpty() bool {
	return len(d.SearchVolume) == 0 && len(d.TopTopics) == 0 && len(d.GapsByType) == 0 &&
		d.Metrics == (DashboardMetrics{})
}

package domain

import (
	"encoding/json"
	"fmt"
)

// Day names, Monday first.
var (
	DayNames      = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	ShortDayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

// NotEnoughDataInsight is reported when there are too few completions to cluster.
const NotEnoughDataInsight = "Not enough data yet..."

type timeBand struct {
	label      string
	start, end int
}

var timeBands = []timeBand{
	{"late at night", 0, 5},
	{"early morning", 5, 9},
	{"in the morning", 9, 12},
	{"in the afternoon", 12, 17},
	{"in the evening", 17, 21},
	{"at night", 21, 24},
}

// TimeOfDayBand describes an hour of day in words.
func TimeOfDayBand(hour int) string {
	for _, b := range timeBands {
		if hour >= b.start && hour < b.end {
			return b.label
		}
	}
	return "at night"
}

// DailySummary is a Monday-first histogram of completions.
// It encodes in chart form: {"labels": [...], "datasets": [{"data": [...]}]}.
type DailySummary struct {
	Labels []string
	Counts []int
}

type chartDataset struct {
	Data []int `json:"data"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

// MarshalJSON implements json.Marshaler.
func (s DailySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(chartData{Labels: s.Labels, Datasets: []chartDataset{{Data: s.Counts}}})
}

// UnmarshalJSON implements json.Unmarshaler. Only the first dataset is read.
func (s *DailySummary) UnmarshalJSON(b []byte) error {
	var c chartData
	if err := json.Unmarshal(b, &c); err != nil {
		return err
	}
	s.Labels = c.Labels
	s.Counts = nil
	if len(c.Datasets) > 0 {
		s.Counts = c.Datasets[0].Data
	}
	return nil
}

// NewDailySummary returns a histogram with the given per-day counts.
func NewDailySummary(counts [DaysPerWeek]int) *DailySummary {
	return &DailySummary{Labels: ShortDayNames[:], Counts: counts[:]}
}

// HabitSentence composes the insight text for the dominant completion habit.
func HabitSentence(center HabitCenter, count int, priority string) string {
	return fmt.Sprintf(
		"Your primary habit is %s on %ss (around %d:00). You've completed %d tasks in this time, mostly '%s' priority.",
		TimeOfDayBand(center.Hour), DayNames[center.Day], center.Hour, count, priority,
	)
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Normalized(t *testing.T) {
	trained := time.Date(2024, 1, 8, 3, 0, 0, 0, time.UTC)
	p := &Profile{
		LastTrained:      trained,
		DeepWorkSlots:    []int{10, -1, 11, 10, 168, 12},
		ShallowWorkSlots: []int{167, 167, 0},
	}

	got := p.Normalized()

	assert.Equal(t, trained, got.LastTrained)
	assert.Equal(t, []int{10, 11, 12}, got.DeepWorkSlots)
	assert.Equal(t, []int{167, 0}, got.ShallowWorkSlots)
	assert.Equal(t, []int{10, -1, 11, 10, 168, 12}, p.DeepWorkSlots, "original untouched")
}

func TestProfile_NilIsEmpty(t *testing.T) {
	var p *Profile

	assert.True(t, p.IsEmpty())
	assert.False(t, p.IsTrained())
	assert.Nil(t, p.SlotsFor(WorkDeep))
	assert.Equal(t, EmptyProfile(), p.Normalized())
}

func TestProfile_SlotsFor(t *testing.T) {
	p := &Profile{DeepWorkSlots: []int{1}, ShallowWorkSlots: []int{2}}

	assert.Equal(t, []int{1}, p.SlotsFor(WorkDeep))
	assert.Equal(t, []int{2}, p.SlotsFor(WorkShallow))
	assert.False(t, p.IsEmpty())
}

func TestExpandCenters(t *testing.T) {
	tests := []struct {
		name    string
		centers []HabitCenter
		want    []int
	}{
		{"midday", []HabitCenter{{Day: 1, Hour: 10}}, []int{33, 34, 35}},
		{"midnight wraps within the day", []HabitCenter{{Day: 0, Hour: 0}}, []int{23, 0, 1}},
		{"sunday late wraps within sunday", []HabitCenter{{Day: 6, Hour: 23}}, []int{166, 167, 144}},
		{"overlapping centers dedupe", []HabitCenter{{Day: 2, Hour: 9}, {Day: 2, Hour: 10}}, []int{56, 57, 58, 59}},
		{"no centers", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandCenters(tt.centers, 1))
		})
	}
}

func TestClampHabitCenter(t *testing.T) {
	assert.Equal(t, HabitCenter{Day: 6, Hour: 23}, ClampHabitCenter(7, 24))
	assert.Equal(t, HabitCenter{Day: 0, Hour: 0}, ClampHabitCenter(-1, -2))
	assert.Equal(t, "Tue 09:00", ClampHabitCenter(1, 9).String())
}

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

var player42 = model.PlayerContext{PlayerID: 42, SiteID: 7, CustomerID: 1}

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		target model.Target
		want   bool
	}{
		{"customer match", model.CustomerTarget(1), true},
		{"customer mismatch", model.CustomerTarget(2), false},
		{"site match", model.SiteTarget(7), true},
		{"site mismatch", model.SiteTarget(1), false},
		{"player match", model.PlayerTarget(42), true},
		{"player id equal to site id does not match", model.PlayerTarget(7), false},
		{"zero target", model.Target{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := model.ScheduleAssignment{ID: 1, ScheduleID: 1, Target: tt.target}
			assert.Equal(t, tt.want, Matches(a, player42))
		})
	}
}

func TestBestMatchPrefersMostSpecific(t *testing.T) {
	assignments := []model.ScheduleAssignment{
		{ID: 1, Target: model.CustomerTarget(1)},
		{ID: 2, Target: model.PlayerTarget(42)},
		{ID: 3, Target: model.SiteTarget(7)},
		{ID: 4},
	}
	got, ok := bestMatch(assignments, player42)
	assert.True(t, ok)
	assert.Equal(t, model.AssignmentPlayer, got)

	_, ok = bestMatch(assignments[3:], player42)
	assert.False(t, ok)
}

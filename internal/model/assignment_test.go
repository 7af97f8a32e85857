package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTargetFromColumns(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		customer *int
		site     *int
		player   *int
		want     Target
		wantErr  bool
	}{
		{name: "customer", kind: "Customer", customer: intPtr(1), want: CustomerTarget(1)},
		{name: "site", kind: "Site", site: intPtr(5), want: SiteTarget(5)},
		{name: "player lower case", kind: "player", player: intPtr(42), want: PlayerTarget(42)},
		{name: "site with customer too", kind: "Site", site: intPtr(5), customer: intPtr(1), wantErr: true},
		{name: "site missing target", kind: "Site", player: intPtr(42), wantErr: true},
		{name: "all three", kind: "Player", customer: intPtr(1), site: intPtr(2), player: intPtr(3), wantErr: true},
		{name: "unknown type", kind: "Region", customer: intPtr(1), wantErr: true},
		{name: "zero id", kind: "Customer", customer: intPtr(0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetFromColumns(tt.kind, tt.customer, tt.site, tt.player)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedAssignment)
				assert.False(t, got.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestTargetColumns(t *testing.T) {
	c, s, p := SiteTarget(7).Columns()
	assert.Nil(t, c)
	assert.Nil(t, p)
	require.NotNil(t, s)
	assert.Equal(t, 7, *s)

	c, s, p = Target{}.Columns()
	assert.Nil(t, c)
	assert.Nil(t, s)
	assert.Nil(t, p)
}

func TestSpecificityOrder(t *testing.T) {
	assert.Greater(t, AssignmentPlayer.Specificity(), AssignmentSite.Specificity())
	assert.Greater(t, AssignmentSite.Specificity(), AssignmentCustomer.Specificity())
	assert.Greater(t, AssignmentCustomer.Specificity(), AssignmentType("Region").Specificity())
}

func TestTargetJSONKeepsZeroTarget(t *testing.T) {
	in := []ScheduleAssignment{
		{ID: 1, ScheduleID: 9, Target: PlayerTarget(42)},
		{ID: 2, ScheduleID: 9},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out []ScheduleAssignment
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 2)
	assert.Equal(t, PlayerTarget(42), out[0].Target)
	assert.False(t, out[1].Target.Valid())
}

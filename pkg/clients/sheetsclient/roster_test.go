package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

func rosterHeader() []interface{} {
	return []interface{}{"Unique ID", "Name", "Role", "Main shift", "Archived", "Show in schedule"}
}

func TestParseRoster(t *testing.T) {
	raw := [][]interface{}{
		rosterHeader(),
		{"v1", "Ana", "volunteer", "Breakfast", "FALSE", "TRUE"},
		{"s1", "Marco", "Staff", "", "FALSE", "TRUE"},
		{"v2", "Leila", "bar", "Bar", "TRUE", "FALSE"},
	}

	users, err := parseRoster(raw)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, model.RosterUser{
		ID: "v1", Name: "Ana", Role: model.UserVolunteer,
		MainShift: model.RoleBreakfast, ShowInSchedule: true,
	}, users[0])

	// Role literals are lowercased on the way in
	assert.Equal(t, model.UserStaff, users[1].Role)
	assert.Empty(t, users[1].MainShift)

	assert.True(t, users[2].Archived)
	assert.False(t, users[2].ShowInSchedule)
}

func TestParseRoster_ShuffledColumns(t *testing.T) {
	raw := [][]interface{}{
		{"Name", "Show in schedule", "Unique ID", "Archived", "Role", "Main shift"},
		{"Ana", "TRUE", "v1", "FALSE", "volunteer", "Cleaning"},
	}

	users, err := parseRoster(raw)
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, "v1", users[0].ID)
	assert.Equal(t, model.RoleCleaning, users[0].MainShift)
}

func TestParseRoster_EmptyShowCellDefaultsVisible(t *testing.T) {
	raw := [][]interface{}{
		rosterHeader(),
		{"v1", "Ana", "volunteer", "Breakfast", "FALSE", ""},
	}

	users, err := parseRoster(raw)
	require.NoError(t, err)

	assert.True(t, users[0].ShowInSchedule)
}

func TestParseRoster_SkipsTrailingEmptyRows(t *testing.T) {
	raw := [][]interface{}{
		rosterHeader(),
		{"v1", "Ana", "volunteer", "Breakfast", "FALSE", "TRUE"},
		{"", "", "", "", "", ""},
		{},
	}

	users, err := parseRoster(raw)
	require.NoError(t, err)

	assert.Len(t, users, 1)
}

func TestParseRoster_MissingHeaderField(t *testing.T) {
	raw := [][]interface{}{
		{"Unique ID", "Name", "Role"},
		{"v1", "Ana", "volunteer"},
	}

	_, err := parseRoster(raw)
	assert.ErrorContains(t, err, "Main shift")
}

func TestParseRoster_MissingRole(t *testing.T) {
	raw := [][]interface{}{
		rosterHeader(),
		{"v1", "Ana", "", "", "FALSE", "TRUE"},
	}

	_, err := parseRoster(raw)
	assert.ErrorContains(t, err, "missing role")
}

func TestParseSheetBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"TRUE", true},
		{"true", true},
		{" Yes ", true},
		{"y", true},
		{"1", true},
		{"FALSE", false},
		{"no", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseSheetBool(tt.value), "value %q", tt.value)
	}
}

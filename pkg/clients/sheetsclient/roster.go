package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

const defaultRosterTab = "Roster"

// Expected column names in the roster sheet
var rosterFields = []string{
	"Unique ID",
	"Name",
	"Role",
	"Main shift",
	"Archived",
	"Show in schedule",
}

// GetUsers retrieves and parses the roster from the configured spreadsheet
func (c *Client) GetUsers(ctx context.Context) ([]model.RosterUser, error) {
	tab := c.cfg.RosterTab
	if tab == "" {
		tab = defaultRosterTab
	}

	values, err := c.GetValues(c.cfg.RosterSheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("roster sheet is empty")
	}

	users, err := parseRoster(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	return users, nil
}

// parseRoster converts raw spreadsheet data into RosterUser structs
func parseRoster(raw [][]interface{}) ([]model.RosterUser, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	for _, field := range rosterFields {
		index := -1
		for i, cell := range headerRow {
			if cellStr, ok := cell.(string); ok && cellStr == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return str
		}
		return ""
	}

	users := make([]model.RosterUser, 0, len(raw)-1)
	for rowIndex, row := range raw[1:] {
		id := strings.TrimSpace(getField("Unique ID", row))
		if id == "" {
			// Trailing empty rows are common in hand-edited sheets
			continue
		}

		role := strings.ToLower(strings.TrimSpace(getField("Role", row)))
		if role == "" {
			return nil, fmt.Errorf("row %d: missing role for user %s", rowIndex+2, id)
		}

		showCell := getField("Show in schedule", row)
		show := parseSheetBool(showCell)
		if defaultShow(showCell) {
			show = true
		}

		users = append(users, model.RosterUser{
			ID:             id,
			Name:           strings.TrimSpace(getField("Name", row)),
			Role:           model.UserRole(role),
			MainShift:      model.ShiftRole(strings.TrimSpace(getField("Main shift", row))),
			Archived:       parseSheetBool(getField("Archived", row)),
			ShowInSchedule: show,
		})
	}

	return users, nil
}

// parseSheetBool accepts the TRUE/FALSE literals Sheets produces plus a few
// hand-typed variants
func parseSheetBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// defaultShow treats an empty Show-in-schedule cell as visible
func defaultShow(value string) bool {
	return strings.TrimSpace(value) == ""
}

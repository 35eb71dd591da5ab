package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// NewCandidate builds the candidate shift for assigning a roster user to a
// role+day cell. The drag gesture itself is a presentation concern; this is
// the pure (user, role, day) -> Shift half.
//
// The time window defaults to the role's fixed window, or the first entry of
// a flexible role's allowed windows. The display name is denormalized from
// the roster at assignment time and not kept in sync with later renames.
func NewCandidate(roles model.RoleTable, user model.RosterUser, role model.ShiftRole, day model.Day) (model.Shift, error) {
	rc, found := roles.Lookup(role)
	if !found {
		return model.Shift{}, fmt.Errorf("unknown shift role %q", role)
	}
	if !day.IsValid() {
		return model.Shift{}, fmt.Errorf("unknown day %q", day)
	}

	return model.Shift{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Name:   user.Name,
		Role:   role,
		Day:    day,
		Time:   rc.DefaultWindow(),
	}, nil
}

// MovedCandidate builds the updated shift for moving an existing shift to a
// new role+day cell. The id is carried over so the validator can exclude the
// shift's own previous slot and the store can replace it in place.
func MovedCandidate(roles model.RoleTable, existing model.Shift, role model.ShiftRole, day model.Day) (model.Shift, error) {
	rc, found := roles.Lookup(role)
	if !found {
		return model.Shift{}, fmt.Errorf("unknown shift role %q", role)
	}
	if !day.IsValid() {
		return model.Shift{}, fmt.Errorf("unknown day %q", day)
	}

	moved := existing
	moved.Role = role
	moved.Day = day
	if !rc.AllowsWindow(moved.Time) {
		// Changing role invalidates the old window, fall back to the default
		moved.Time = rc.DefaultWindow()
	}
	return moved, nil
}

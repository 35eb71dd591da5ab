package schedule

import (
	"sort"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// sortWeight orders roster users on the schedule: staff first, then interns,
// then volunteers by their preferred work area. Lookup tables instead of
// role conditionals so new roles only need a table entry.
var (
	userRoleWeight = map[model.UserRole]int{
		model.UserStaff:   0,
		model.UserManager: 0,
		model.UserAdmin:   0,
		model.UserIntern:  1,
	}

	mainShiftWeight = map[model.ShiftRole]int{
		model.RoleBreakfast: 0,
		model.RoleCleaning:  1,
		model.RoleBar:       2,
	}
)

const (
	volunteerBaseWeight = 10
	unknownRoleWeight   = 100
)

func sortWeight(u model.RosterUser) int {
	if w, ok := userRoleWeight[u.Role]; ok {
		return w
	}
	if u.Role.IsVolunteerClass() {
		if w, ok := mainShiftWeight[u.MainShift]; ok {
			return volunteerBaseWeight + w
		}
		return volunteerBaseWeight + len(mainShiftWeight)
	}
	return unknownRoleWeight
}

// ViewModel derives display-ready groupings from a week schedule without
// mutating it
type ViewModel struct {
	week   *model.WeekSchedule
	roster []model.RosterUser
}

// NewViewModel builds a view model over a week document and the roster
func NewViewModel(week *model.WeekSchedule, roster []model.RosterUser) *ViewModel {
	return &ViewModel{week: week, roster: roster}
}

// Shifts returns all shifts for a user on a given day. Normally 0 or 1 for
// volunteers, unbounded for exempt roles.
func (vm *ViewModel) Shifts(userID string, day model.Day) []model.Shift {
	var shifts []model.Shift
	for _, s := range vm.week.Shifts {
		if s.UserID == userID && s.Day == day {
			shifts = append(shifts, s)
		}
	}
	return shifts
}

// ShiftsByRole returns all shifts for a role on a given day, for the
// role-centric view
func (vm *ViewModel) ShiftsByRole(role model.ShiftRole, day model.Day) []model.Shift {
	var shifts []model.Shift
	for _, s := range vm.week.Shifts {
		if s.Role == role && s.Day == day {
			shifts = append(shifts, s)
		}
	}
	return shifts
}

// VisibleUsers returns the roster rows to render, sorted. In the default
// mode only users with at least one shift this week appear; edit mode
// reveals the full eligible roster. Archived users and users explicitly
// hidden from the schedule are always excluded.
func (vm *ViewModel) VisibleUsers(editMode bool) []model.RosterUser {
	hasShift := make(map[string]bool, len(vm.week.Shifts))
	for _, s := range vm.week.Shifts {
		hasShift[s.UserID] = true
	}

	visible := make([]model.RosterUser, 0, len(vm.roster))
	for _, u := range vm.roster {
		if u.Archived || !u.ShowInSchedule {
			continue
		}
		if !editMode && !hasShift[u.ID] {
			continue
		}
		visible = append(visible, u)
	}

	// Stable: equal weights keep their roster order
	sort.SliceStable(visible, func(i, j int) bool {
		return sortWeight(visible[i]) < sortWeight(visible[j])
	})

	return visible
}

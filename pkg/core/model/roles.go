package model

// ShiftKind distinguishes roles with a single fixed time window from roles
// with an enumerated set of allowed windows.
type ShiftKind string

const (
	// Fixed roles have exactly one time window
	Fixed ShiftKind = "fixed"
	// Flexible roles have a small set of allowed windows, first is the default
	Flexible ShiftKind = "flexible"
)

// RoleConfig is the static configuration of one shift role
type RoleConfig struct {
	Kind ShiftKind
	// Windows holds the allowed time windows. Fixed roles have exactly one
	// entry; for flexible roles the first entry is the default.
	Windows []string
}

// DefaultWindow returns the window a freshly built candidate shift gets
func (rc RoleConfig) DefaultWindow() string {
	if len(rc.Windows) == 0 {
		return ""
	}
	return rc.Windows[0]
}

// AllowsWindow reports whether the given time window is valid for the role
func (rc RoleConfig) AllowsWindow(window string) bool {
	for _, w := range rc.Windows {
		if w == window {
			return true
		}
	}
	return false
}

// RoleTable maps each shift role to its kind and allowed time windows.
// It is immutable injected configuration, not user data: the validator and
// the mutation protocol receive it explicitly so alternate tables are
// testable without global state.
type RoleTable map[ShiftRole]RoleConfig

// Lookup returns the configuration for a role
func (t RoleTable) Lookup(role ShiftRole) (RoleConfig, bool) {
	rc, ok := t[role]
	return rc, ok
}

// DefaultRoleTable returns the hostel's standard role configuration
func DefaultRoleTable() RoleTable {
	return RoleTable{
		RoleBreakfast: {Kind: Fixed, Windows: []string{"06:55 - 12:00"}},
		RoleCleaning:  {Kind: Fixed, Windows: []string{"10:30 - 16:00"}},
		RoleBar:       {Kind: Flexible, Windows: []string{"15:30 - 21:00", "17:00 - 22:30"}},
		RoleFrontOffice: {Kind: Flexible, Windows: []string{
			"07:00 - 15:00",
			"08:00 - 16:00",
			"10:00 - 18:00",
			"12:00 - 20:00",
			"14:00 - 22:00",
			"15:00 - 23:00",
			"16:00 - 00:00",
			"23:00 - 07:00",
		}},
		RoleIntern: {Kind: Flexible, Windows: []string{
			"08:00 - 14:00",
			"10:00 - 16:00",
			"14:00 - 20:00",
			"16:00 - 22:00",
		}},
	}
}

// volunteerEligibleRoles are the work areas a volunteer may be scheduled for
var volunteerEligibleRoles = map[ShiftRole]bool{
	RoleBreakfast: true,
	RoleCleaning:  true,
	RoleBar:       true,
}

// VolunteerEligible reports whether volunteers may work the given role
func VolunteerEligible(role ShiftRole) bool {
	return volunteerEligibleRoles[role]
}

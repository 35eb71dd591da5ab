package model

// Day is a three-letter weekday label. The schedule week starts on Monday.
type Day string

const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
	Sat Day = "Sat"
	Sun Day = "Sun"
)

// Days lists the weekdays in schedule order (Monday first).
var Days = []Day{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

func (d Day) IsValid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ShiftRole identifies a work area on the schedule
type ShiftRole string

const (
	RoleFrontOffice ShiftRole = "Front Office"
	RoleIntern      ShiftRole = "Intern"
	RoleBreakfast   ShiftRole = "Breakfast"
	RoleCleaning    ShiftRole = "Cleaning"
	RoleBar         ShiftRole = "Bar"
)

// UserRole is the roster role of a staff member or volunteer
type UserRole string

const (
	UserVolunteer UserRole = "volunteer"
	UserIntern    UserRole = "intern"
	UserStaff     UserRole = "staff"
	UserManager   UserRole = "manager"
	UserAdmin     UserRole = "admin"
)

// volunteerClassRoles covers roster entries that use a work-area literal
// instead of "volunteer" for their role. They are subject to the same
// scheduling constraints as volunteers.
var volunteerClassRoles = map[UserRole]bool{
	UserVolunteer: true,
	"breakfast":   true,
	"cleaning":    true,
	"bar":         true,
}

// IsVolunteerClass reports whether a roster role is subject to the
// volunteer scheduling constraints. Staff, managers, interns and admins
// are exempt from all of them.
func (r UserRole) IsVolunteerClass() bool {
	return volunteerClassRoles[r]
}

// Shift is the atomic schedulable unit: one (user, role, day, time window)
// assignment within a week
type Shift struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Name   string    `json:"name"`
	Role   ShiftRole `json:"role"`
	Day    Day       `json:"day"`
	Time   string    `json:"time"`
}

// WeekSchedule aggregates all shifts of one calendar week. It is persisted
// as a whole document keyed by the week id, last write wins.
type WeekSchedule struct {
	ID        string  `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Shifts    []Shift `json:"shifts"`
}

// FindShift returns the shift with the given id, or nil
func (w *WeekSchedule) FindShift(id string) *Shift {
	for i := range w.Shifts {
		if w.Shifts[i].ID == id {
			return &w.Shifts[i]
		}
	}
	return nil
}

// ShiftCountFor counts the shifts belonging to a user in this week
func (w *WeekSchedule) ShiftCountFor(userID string) int {
	count := 0
	for _, s := range w.Shifts {
		if s.UserID == userID {
			count++
		}
	}
	return count
}

// RosterUser is a staff/volunteer profile supplied by the roster provider.
// Consumed read-only by the scheduling core.
type RosterUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Role           UserRole  `json:"role"`
	MainShift      ShiftRole `json:"mainShift"`
	Archived       bool      `json:"archived"`
	ShowInSchedule bool      `json:"showInSchedule"`
}

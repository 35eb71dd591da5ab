package schedule

import "github.com/mlombardi/casa-rota/pkg/core/model"

// Messages surfaced to the actor. Only the first blocking error is shown.
const (
	ErrRoleNotEligible = "Volunteers cannot be assigned to Front Office or Intern shifts"
	ErrOneShiftPerDay  = "Volunteers can only have one shift per day"
	WarnFewRestDays    = "Fewer than 2 rest days this week"
)

// maxWorkDays is the number of distinct work days a volunteer can reach
// before the rest-day warning fires (5 work days leaves 2 rest days).
const maxWorkDays = 5

// ValidationResult is the outcome of checking a candidate shift.
// Errors block the mutation; warnings require a confirming resubmit.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func ok() ValidationResult {
	return ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}
}

// Validate decides whether a candidate shift may be added or updated for a
// user against the rest of the week's shifts. Only volunteer-class users are
// constrained; staff, managers, interns and admins always pass.
//
// weekShifts must contain every shift of the target week, including the one
// being edited (matched by id and skipped).
func Validate(user model.RosterUser, candidate model.Shift, weekShifts []model.Shift) ValidationResult {
	if !user.Role.IsVolunteerClass() {
		return ok()
	}

	result := ok()

	// Rule 1: role eligibility
	if !model.VolunteerEligible(candidate.Role) {
		result.Valid = false
		result.Errors = append(result.Errors, ErrRoleNotEligible)
		return result
	}

	// Rule 2: one shift per day
	for _, s := range weekShifts {
		if s.UserID == user.ID && s.Day == candidate.Day && s.ID != candidate.ID {
			result.Valid = false
			result.Errors = append(result.Errors, ErrOneShiftPerDay)
			return result
		}
	}

	// Rule 3: rest days. Non-blocking, needs a confirming resubmit.
	workDays := map[model.Day]bool{candidate.Day: true}
	for _, s := range weekShifts {
		if s.UserID == user.ID && s.ID != candidate.ID {
			workDays[s.Day] = true
		}
	}
	if len(workDays) > maxWorkDays {
		result.Warnings = append(result.Warnings, WarnFewRestDays)
	}

	return result
}

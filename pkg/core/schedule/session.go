package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// DefaultSoftShiftLimit is the volunteer shift count at which the advisory
// confirmation fires before creating another shift in the same week.
const DefaultSoftShiftLimit = 5

// OutcomeKind classifies the result of a mutation attempt
type OutcomeKind string

const (
	// OutcomeApplied means the mutation is in the in-memory week and a
	// store write has been issued
	OutcomeApplied OutcomeKind = "applied"
	// OutcomeNoop means nothing changed (move to the same cell, delete of
	// an unknown id)
	OutcomeNoop OutcomeKind = "noop"
	// OutcomeRejected means a blocking validation error, no state change
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeNeedsTimeChoice means a flexible role needs an explicit time
	// window before anything is persisted
	OutcomeNeedsTimeChoice OutcomeKind = "needs_time_choice"
	// OutcomeNeedsWarningConfirm means non-blocking warnings were raised
	// and the same save must be submitted again to proceed
	OutcomeNeedsWarningConfirm OutcomeKind = "needs_warning_confirm"
	// OutcomeNeedsCountConfirm means the volunteer soft shift limit was hit
	// and the actor must explicitly confirm the extra shift
	OutcomeNeedsCountConfirm OutcomeKind = "needs_count_confirm"
)

// MutationOutcome is the structured result of an assign/move/delete attempt
type MutationOutcome struct {
	Kind        OutcomeKind
	Shift       *model.Shift // set when Kind == OutcomeApplied
	Errors      []string
	Warnings    []string
	TimeWindows []string // allowed windows when Kind == OutcomeNeedsTimeChoice
	ShiftCount  int      // existing count when Kind == OutcomeNeedsCountConfirm
}

// Store is the persistence surface the session needs. Writes replace the
// whole week document, last write wins.
type Store interface {
	SaveWeekSchedule(ctx context.Context, weekID string, week *model.WeekSchedule) error
}

// PersistErrorFunc reports a failed store write. The in-memory week is kept
// as-is; the session is only marked unsynced.
type PersistErrorFunc func(weekID string, err error)

// SessionConfig carries the dependencies of a schedule editing session
type SessionConfig struct {
	Week   *model.WeekSchedule
	Roles  model.RoleTable
	Roster []model.RosterUser
	Store  Store
	Logger *zap.Logger

	// ClosedDays are days of this week the hostel is closed on; assigns and
	// moves onto them are rejected
	ClosedDays map[model.Day]bool

	// SoftShiftLimit overrides DefaultSoftShiftLimit when > 0
	SoftShiftLimit int

	// OnPersistError is called after a failed store write, in addition to
	// logging. May be nil.
	OnPersistError PersistErrorFunc
}

// Session owns the in-memory week schedule for the duration of one view and
// runs the shift mutation protocol against it. Mutations are applied
// optimistically: the in-memory document is updated first and the store
// write happens asynchronously. A failed write never rolls the session back.
//
// A session is meant for a single editor; methods are not safe for
// concurrent use.
type Session struct {
	week      *model.WeekSchedule
	roles     model.RoleTable
	userByID  map[string]model.RosterUser
	store     Store
	logger    *zap.Logger
	closed    map[model.Day]bool
	softLimit int
	onError   PersistErrorFunc

	// pendingWarnings tracks candidates whose warnings have been surfaced
	// once; a second identical save proceeds
	pendingWarnings map[string]bool

	unsynced atomic.Bool
	writes   sync.WaitGroup
}

// NewSession creates an editing session over the given week document
func NewSession(cfg SessionConfig) *Session {
	userByID := make(map[string]model.RosterUser, len(cfg.Roster))
	for _, u := range cfg.Roster {
		userByID[u.ID] = u
	}

	limit := cfg.SoftShiftLimit
	if limit <= 0 {
		limit = DefaultSoftShiftLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		week:            cfg.Week,
		roles:           cfg.Roles,
		userByID:        userByID,
		store:           cfg.Store,
		logger:          logger,
		closed:          cfg.ClosedDays,
		softLimit:       limit,
		onError:         cfg.OnPersistError,
		pendingWarnings: make(map[string]bool),
	}
}

// Week returns the in-memory document. It is authoritative for the session,
// even after a failed store write.
func (s *Session) Week() *model.WeekSchedule {
	return s.week
}

// Unsynced reports whether a store write has failed since the session
// started, i.e. memory and store may have diverged.
func (s *Session) Unsynced() bool {
	return s.unsynced.Load()
}

// Flush waits for all in-flight store writes to finish
func (s *Session) Flush() {
	s.writes.Wait()
}

// AssignOptions tune a single assign attempt
type AssignOptions struct {
	// Time is the explicitly chosen window for flexible roles. Empty means
	// not chosen yet.
	Time string
	// ConfirmCount acknowledges the volunteer soft shift limit
	ConfirmCount bool
	// AcknowledgeWarnings accepts non-blocking warnings up front instead of
	// requiring a second identical save
	AcknowledgeWarnings bool
}

// Assign runs the create-from-pool protocol: build a candidate shift for
// (user, role, day), validate it, walk the confirmation steps, then apply
// and persist.
func (s *Session) Assign(user model.RosterUser, role model.ShiftRole, day model.Day, opts AssignOptions) (*MutationOutcome, error) {
	candidate, err := NewCandidate(s.roles, user, role, day)
	if err != nil {
		return nil, err
	}
	if opts.Time != "" {
		candidate.Time = opts.Time
	}

	if s.closed[day] {
		return rejected(fmt.Sprintf("Hostel is closed on %s", day)), nil
	}

	result := Validate(user, candidate, s.week.Shifts)
	if !result.Valid {
		return &MutationOutcome{Kind: OutcomeRejected, Errors: result.Errors}, nil
	}

	// Advisory soft limit, on total count only. Fires before any
	// persistence; declining simply never resubmits.
	if user.Role.IsVolunteerClass() && !opts.ConfirmCount {
		if count := s.week.ShiftCountFor(user.ID); count >= s.softLimit {
			return &MutationOutcome{Kind: OutcomeNeedsCountConfirm, ShiftCount: count}, nil
		}
	}

	rc, _ := s.roles.Lookup(role)
	if opts.Time == "" && rc.Kind == model.Flexible {
		// Flexible roles never auto-save with the default window; hand
		// control to the explicit time selection step.
		return &MutationOutcome{Kind: OutcomeNeedsTimeChoice, TimeWindows: rc.Windows}, nil
	}
	if opts.Time != "" && !rc.AllowsWindow(opts.Time) {
		return rejected(fmt.Sprintf("%q is not an allowed time window for %s", opts.Time, role)), nil
	}

	if outcome := s.checkWarnings(candidate, result.Warnings, opts.AcknowledgeWarnings); outcome != nil {
		return outcome, nil
	}

	s.week.Shifts = append(s.week.Shifts, candidate)
	s.persist()

	s.logger.Info("Shift assigned",
		zap.String("shift_id", candidate.ID),
		zap.String("user_id", candidate.UserID),
		zap.String("role", string(candidate.Role)),
		zap.String("day", string(candidate.Day)))

	return applied(candidate), nil
}

// MoveOptions tune a single move attempt
type MoveOptions struct {
	// Time overrides the window after the move; empty keeps the existing
	// window when still allowed, or falls back to the new role's default
	Time string
	// AcknowledgeWarnings accepts non-blocking warnings up front
	AcknowledgeWarnings bool
}

// Move runs the drag/drop protocol for an existing shift. Moving a shift
// onto its own current (role, day) cell is a no-op: no validation, no store
// write, the in-memory list is untouched.
func (s *Session) Move(shiftID string, role model.ShiftRole, day model.Day, opts MoveOptions) (*MutationOutcome, error) {
	existing := s.week.FindShift(shiftID)
	if existing == nil {
		return nil, fmt.Errorf("shift %s not found in week %s", shiftID, s.week.ID)
	}

	if existing.Role == role && existing.Day == day && (opts.Time == "" || opts.Time == existing.Time) {
		return &MutationOutcome{Kind: OutcomeNoop}, nil
	}

	candidate, err := MovedCandidate(s.roles, *existing, role, day)
	if err != nil {
		return nil, err
	}
	if opts.Time != "" {
		candidate.Time = opts.Time
	}

	if s.closed[day] {
		return rejected(fmt.Sprintf("Hostel is closed on %s", day)), nil
	}

	rc, _ := s.roles.Lookup(role)
	if !rc.AllowsWindow(candidate.Time) {
		return rejected(fmt.Sprintf("%q is not an allowed time window for %s", candidate.Time, role)), nil
	}

	user, found := s.userByID[existing.UserID]
	if !found {
		return nil, fmt.Errorf("user %s not found in roster", existing.UserID)
	}

	result := Validate(user, candidate, s.week.Shifts)
	if !result.Valid {
		return &MutationOutcome{Kind: OutcomeRejected, Errors: result.Errors}, nil
	}

	if outcome := s.checkWarnings(candidate, result.Warnings, opts.AcknowledgeWarnings); outcome != nil {
		return outcome, nil
	}

	*existing = candidate
	s.persist()

	s.logger.Info("Shift moved",
		zap.String("shift_id", candidate.ID),
		zap.String("role", string(candidate.Role)),
		zap.String("day", string(candidate.Day)))

	return applied(candidate), nil
}

// Delete removes a shift by id. Deleting an unknown id is a no-op.
func (s *Session) Delete(shiftID string) (*MutationOutcome, error) {
	for i := range s.week.Shifts {
		if s.week.Shifts[i].ID != shiftID {
			continue
		}
		removed := s.week.Shifts[i]
		s.week.Shifts = append(s.week.Shifts[:i], s.week.Shifts[i+1:]...)
		s.persist()

		s.logger.Info("Shift deleted",
			zap.String("shift_id", removed.ID),
			zap.String("user_id", removed.UserID))

		return applied(removed), nil
	}
	return &MutationOutcome{Kind: OutcomeNoop}, nil
}

// checkWarnings implements the two-step confirmation: the first save with
// warnings is suspended, an identical resubmit goes through. Returns nil
// when the mutation may proceed.
func (s *Session) checkWarnings(candidate model.Shift, warnings []string, acknowledged bool) *MutationOutcome {
	if len(warnings) == 0 || acknowledged {
		return nil
	}

	key := warningKey(candidate)
	if s.pendingWarnings[key] {
		// Second identical save: treat the warning as accepted
		delete(s.pendingWarnings, key)
		return nil
	}

	s.pendingWarnings[key] = true
	return &MutationOutcome{Kind: OutcomeNeedsWarningConfirm, Warnings: warnings}
}

// warningKey fingerprints a candidate so a resubmit of the same save can be
// recognised. The generated shift id is excluded: a fresh create builds a
// new id on every attempt.
func warningKey(candidate model.Shift) string {
	return strings.Join([]string{candidate.UserID, string(candidate.Role), string(candidate.Day), candidate.Time}, "|")
}

// persist issues the asynchronous whole-document store write for the current
// in-memory state. Failures are logged and reported, never propagated; the
// optimistic in-memory copy stays authoritative for the session.
func (s *Session) persist() {
	doc := snapshot(s.week)

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		if err := s.store.SaveWeekSchedule(context.Background(), doc.ID, doc); err != nil {
			s.unsynced.Store(true)
			s.logger.Error("Failed to persist week schedule",
				zap.String("week_id", doc.ID),
				zap.Error(err))
			if s.onError != nil {
				s.onError(doc.ID, err)
			}
			return
		}
		s.logger.Debug("Week schedule persisted", zap.String("week_id", doc.ID))
	}()
}

// snapshot deep-copies the document so the write goroutine never races the
// editor mutating the in-memory shifts
func snapshot(week *model.WeekSchedule) *model.WeekSchedule {
	doc := *week
	doc.Shifts = make([]model.Shift, len(week.Shifts))
	copy(doc.Shifts, week.Shifts)
	return &doc
}

func applied(shift model.Shift) *MutationOutcome {
	return &MutationOutcome{Kind: OutcomeApplied, Shift: &shift}
}

func rejected(msg string) *MutationOutcome {
	return &MutationOutcome{Kind: OutcomeRejected, Errors: []string{msg}}
}

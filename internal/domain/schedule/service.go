package schedule

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"pharmaduty-go/internal/cache"
	"pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/moderation"
	"pharmaduty-go/internal/domain/pharmacy"
	"pharmaduty-go/internal/pagination"
	"pharmaduty-go/internal/validation"
	"pharmaduty-go/pkg/logger"
)

const defaultRangeDays = 30

// PharmacyLookup resolves pharmacies by id or by owning user.
type PharmacyLookup interface {
	GetByID(ctx context.Context, id uint, withDeleted bool) (*pharmacy.Pharmacy, error)
	GetByOwner(ctx context.Context, userID uint) (*pharmacy.Pharmacy, error)
}

type Service struct {
	repo       Repository
	pharmacies PharmacyLookup
	gate       *moderation.Gate
	audit      audit.Recorder
	cache      cache.Store
	log        logger.Logger
	now        func() time.Time
	loc        *time.Location
	shuffle    func([]uint)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the timezone in which "today" and "now" are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithShuffle(shuffle func([]uint)) Option {
	return func(s *Service) {
		s.shuffle = shuffle
	}
}

func WithAudit(recorder audit.Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

func WithCache(store cache.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.cache = store
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(repo Repository, pharmacies PharmacyLookup, gate *moderation.Gate, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		pharmacies: pharmacies,
		gate:       gate,
		audit:      audit.NopRecorder(),
		cache:      cache.Noop(),
		log:        logger.Nop(),
		now:        time.Now,
		loc:        time.UTC,
		shuffle: func(ids []uint) {
			rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar date in the service location.
func (s *Service) Today() time.Time {
	return Date(s.now(), s.loc)
}

// CreateOwned adds a schedule to the caller's own pharmacy. The pharmacy must be approved
// and the date must not be in the past.
func (s *Service) CreateOwned(ctx context.Context, userID uint, input Input) (*DutySchedule, error) {
	owned, err := s.pharmacies.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !owned.IsApproved {
		return nil, ErrPharmacyNotApproved
	}
	if Date(input.DutyDate, time.UTC).Before(s.Today()) {
		return nil, ErrDateInPast
	}
	return s.create(ctx, owned.ID, input)
}

// UpdateOwned edits one of the caller's schedules while it is still today or upcoming.
func (s *Service) UpdateOwned(ctx context.Context, userID, id uint, input UpdateInput) (*DutySchedule, error) {
	existing, err := s.ownedSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	input.PharmacyID = nil
	if input.DutyDate != nil && Date(*input.DutyDate, time.UTC).Before(s.Today()) {
		return nil, ErrDateInPast
	}
	return s.update(ctx, existing, input)
}

func (s *Service) DeleteOwned(ctx context.Context, userID, id uint) error {
	if _, err := s.ownedSchedule(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStatistics(ctx)
	return nil
}

// ListOwned pages through the caller's schedules, newest date first.
func (s *Service) ListOwned(ctx context.Context, userID uint, filter ListFilter) ([]DutySchedule, pagination.Meta, error) {
	owned, err := s.pharmacies.GetByOwner(ctx, userID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	filter.PharmacyID = &owned.ID
	return s.AdminList(ctx, filter)
}

// AdminCreate has no date floor and defaults to a full 08:00-08:00 shift.
func (s *Service) AdminCreate(ctx context.Context, input AdminInput) (*DutySchedule, error) {
	if _, err := s.pharmacies.GetByID(ctx, input.PharmacyID, false); err != nil {
		return nil, err
	}
	return s.create(ctx, input.PharmacyID, input.Input)
}

func (s *Service) AdminUpdate(ctx context.Context, id uint, input UpdateInput) (*DutySchedule, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, existing, input)
}

func (s *Service) AdminDelete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStatistics(ctx)
	return nil
}

func (s *Service) AdminList(ctx context.Context, filter ListFilter) ([]DutySchedule, pagination.Meta, error) {
	filter.Params = filter.Params.Normalize(pagination.DefaultPerPage, pagination.MaxPerPage)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(filter.Params, total), nil
}

// Export returns every schedule matching the filter without paging. The range defaults to the current month.
func (s *Service) Export(ctx context.Context, filter ListFilter) ([]DutySchedule, error) {
	if filter.From == nil || filter.To == nil {
		today := s.Today()
		first, last := MonthRange(today.Year(), today.Month())
		if filter.From == nil {
			filter.From = &first
		}
		if filter.To == nil {
			filter.To = &last
		}
	}
	if err := validateRange(*filter.From, *filter.To); err != nil {
		return nil, err
	}
	filter.Params = pagination.Params{}
	items, _, err := s.repo.List(ctx, filter)
	return items, err
}

// OnDutyNow matches today's schedules whose window contains the current clock time.
// The window is compared within the same day only.
func (s *Service) OnDutyNow(ctx context.Context) ([]DutySchedule, error) {
	now := s.now().In(s.loc)
	return s.repo.ListOnDutyAt(ctx, Date(now, s.loc), now.Format(ClockLayout))
}

// OnDutyToday returns the nearest schedules from today onwards.
func (s *Service) OnDutyToday(ctx context.Context) ([]DutySchedule, error) {
	return s.repo.ListUpcoming(ctx, s.Today(), UpcomingLimit)
}

// Range lists public schedules in [from, to]. Missing bounds default to today and today+30.
func (s *Service) Range(ctx context.Context, from, to *time.Time) ([]DutySchedule, time.Time, time.Time, error) {
	start := s.Today()
	if from != nil {
		start = Date(*from, time.UTC)
	}
	end := start.AddDate(0, 0, defaultRangeDays)
	if to != nil {
		end = Date(*to, time.UTC)
	}
	if err := validateRange(start, end); err != nil {
		return nil, start, end, err
	}
	items, err := s.repo.ListRange(ctx, start, end)
	return items, start, end, err
}

// Calendar groups a month of public schedules by ISO date.
func (s *Service) Calendar(ctx context.Context, month, year int) (map[string][]DutySchedule, error) {
	errs := validation.Errors{}
	if month < 1 || month > 12 {
		errs.Add("month", "The month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		errs.Add("year", "The year must be between 2000 and 2100")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	first, last := MonthRange(year, time.Month(month))
	items, err := s.repo.ListRange(ctx, first, last)
	if err != nil {
		return nil, err
	}
	return GroupByDate(items), nil
}

// Week lists public schedules from Monday to Sunday of the current week.
func (s *Service) Week(ctx context.Context) ([]DutySchedule, time.Time, time.Time, error) {
	monday, sunday := WeekRange(s.Today())
	items, err := s.repo.ListRange(ctx, monday, sunday)
	return items, monday, sunday, err
}

// BulkCreate inserts every acceptable item in one transaction. Duplicates and invalid items are
// reported per item and do not abort the batch; a storage failure rolls back the whole call.
func (s *Service) BulkCreate(ctx context.Context, actorID uint, items []BulkItem) (*BulkResult, error) {
	result := &BulkResult{Created: []DutySchedule{}, Errors: []ItemError{}}
	if len(items) == 0 {
		return result, nil
	}

	ids := make(map[uint]struct{}, len(items))
	for _, item := range items {
		ids[item.PharmacyID] = struct{}{}
	}
	existing, err := s.repo.ExistingPharmacyIDs(ctx, slices.Collect(maps.Keys(ids)))
	if err != nil {
		return nil, fmt.Errorf("bulk create schedules: %w", err)
	}
	known := make(map[uint]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	type slot struct {
		pharmacyID uint
		date       string
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		result.Created = result.Created[:0]
		result.Errors = result.Errors[:0]
		seen := make(map[slot]struct{}, len(items))

		for i, item := range items {
			date := Date(item.DutyDate, time.UTC)
			fail := func(message string) {
				result.Errors = append(result.Errors, ItemError{Index: i, PharmacyID: item.PharmacyID, DutyDate: date, Message: message})
			}

			if !known[item.PharmacyID] {
				fail(pharmacy.ErrPharmacyNotFound.Error())
				continue
			}
			start, end, errs := normalizeTimes(item.StartTime, item.EndTime)
			notes, noteErrs := s.cleanNotes(item.Notes)
			errs.Merge(noteErrs)
			if !errs.Empty() {
				fail(summarize(errs))
				continue
			}

			key := slot{pharmacyID: item.PharmacyID, date: date.Format(DateLayout)}
			if _, dup := seen[key]; dup {
				fail(ErrScheduleConflict.Error())
				continue
			}
			seen[key] = struct{}{}

			taken, err := tx.ExistsForDate(ctx, item.PharmacyID, date, 0)
			if err != nil {
				return err
			}
			if taken {
				fail(ErrScheduleConflict.Error())
				continue
			}

			schedule := DutySchedule{
				PharmacyID:  item.PharmacyID,
				DutyDate:    date,
				StartTime:   start,
				EndTime:     end,
				IsEmergency: item.IsEmergency,
				Notes:       notes,
			}
			created, err := tx.CreateIfAbsent(ctx, &schedule)
			if err != nil {
				return err
			}
			if !created {
				fail(ErrScheduleConflict.Error())
				continue
			}
			result.Created = append(result.Created, schedule)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk create schedules: %w", err)
	}

	result.SuccessCount = len(result.Created)
	result.ErrorCount = len(result.Errors)
	if result.SuccessCount > 0 {
		s.audit.Record(ctx, actorID, audit.ActionSchedulesBulkCreated, audit.EntitySchedule, 0, map[string]any{
			"success_count": result.SuccessCount,
			"error_count":   result.ErrorCount,
		})
		s.invalidateStatistics(ctx)
	}
	return result, nil
}

// GenerateRotation assigns pharmacies[i mod N] to day i of the window, skipping days where that
// pharmacy already has a schedule. Random rotations shuffle the pharmacy list once up front.
func (s *Service) GenerateRotation(ctx context.Context, actorID uint, input RotationInput) (*RotationResult, error) {
	switch input.RotationType {
	case "":
		input.RotationType = RotationSequential
	case RotationSequential, RotationRandom:
	default:
		return nil, ErrInvalidRotationType
	}

	from, to := Date(input.StartDate, time.UTC), Date(input.EndDate, time.UTC)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	ids, err := s.repo.ActivePharmacyIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoActivePharmacies
	}
	if input.RotationType == RotationRandom {
		ids = slices.Clone(ids)
		s.shuffle(ids)
	}

	result := &RotationResult{Created: []DutySchedule{}}
	days := DaysBetween(from, to)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		result.Created = result.Created[:0]
		result.SkippedCount = 0

		for i := 0; i < days; i++ {
			date := from.AddDate(0, 0, i)
			pharmacyID := ids[i%len(ids)]

			taken, err := tx.ExistsForDate(ctx, pharmacyID, date, 0)
			if err != nil {
				return err
			}
			if taken {
				result.SkippedCount++
				continue
			}

			schedule := DutySchedule{
				PharmacyID: pharmacyID,
				DutyDate:   date,
				StartTime:  DefaultStartTime,
				EndTime:    DefaultEndTime,
			}
			created, err := tx.CreateIfAbsent(ctx, &schedule)
			if err != nil {
				return err
			}
			if !created {
				result.SkippedCount++
				continue
			}
			result.Created = append(result.Created, schedule)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate rotation: %w", err)
	}

	result.CreatedCount = len(result.Created)
	s.audit.Record(ctx, actorID, audit.ActionRotationGenerated, audit.EntitySchedule, 0, map[string]any{
		"start_date":    from.Format(DateLayout),
		"end_date":      to.Format(DateLayout),
		"rotation_type": string(input.RotationType),
		"created_count": result.CreatedCount,
		"skipped_count": result.SkippedCount,
	})
	if result.CreatedCount > 0 {
		s.invalidateStatistics(ctx)
	}
	return result, nil
}

func (s *Service) create(ctx context.Context, pharmacyID uint, input Input) (*DutySchedule, error) {
	start, end, errs := normalizeTimes(input.StartTime, input.EndTime)
	notes, noteErrs := s.cleanNotes(input.Notes)
	errs.Merge(noteErrs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	schedule := &DutySchedule{
		PharmacyID:  pharmacyID,
		DutyDate:    Date(input.DutyDate, time.UTC),
		StartTime:   start,
		EndTime:     end,
		IsEmergency: input.IsEmergency,
		Notes:       notes,
	}

	taken, err := s.repo.ExistsForDate(ctx, pharmacyID, schedule.DutyDate, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrScheduleConflict
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	s.invalidateStatistics(ctx)
	return schedule, nil
}

func (s *Service) update(ctx context.Context, existing *DutySchedule, input UpdateInput) (*DutySchedule, error) {
	updated := *existing
	updated.Pharmacy = nil

	if input.PharmacyID != nil && *input.PharmacyID != existing.PharmacyID {
		if _, err := s.pharmacies.GetByID(ctx, *input.PharmacyID, false); err != nil {
			return nil, err
		}
		updated.PharmacyID = *input.PharmacyID
	}
	if input.DutyDate != nil {
		updated.DutyDate = Date(*input.DutyDate, time.UTC)
	}

	start, end := updated.StartTime, updated.EndTime
	if input.StartTime != nil {
		start = *input.StartTime
	}
	if input.EndTime != nil {
		end = *input.EndTime
	}
	start, end, errs := normalizeTimes(start, end)
	updated.StartTime, updated.EndTime = start, end

	if input.IsEmergency != nil {
		updated.IsEmergency = *input.IsEmergency
	}
	if input.Notes.Set {
		notes, noteErrs := s.cleanNotes(input.Notes.Value)
		errs.Merge(noteErrs)
		updated.Notes = notes
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if updated.PharmacyID != existing.PharmacyID || !SameDate(updated.DutyDate, existing.DutyDate) {
		taken, err := s.repo.ExistsForDate(ctx, updated.PharmacyID, updated.DutyDate, updated.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrScheduleConflict
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.invalidateStatistics(ctx)
	return &updated, nil
}

// ownedSchedule re-resolves the caller's pharmacy and applies the ownership and past-date guards.
func (s *Service) ownedSchedule(ctx context.Context, userID, id uint) (*DutySchedule, error) {
	owned, err := s.pharmacies.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PharmacyID != owned.ID {
		return nil, ErrForbidden
	}
	if existing.DutyDate.Before(s.Today()) {
		return nil, ErrScheduleInPast
	}
	return existing, nil
}

func (s *Service) cleanNotes(notes *string) (*string, validation.Errors) {
	clean := moderation.SanitizePtr(notes)
	if clean == nil {
		return nil, validation.Errors{}
	}
	return clean, moderation.ContentErrors(s.gate.CheckText(map[string]string{"notes": *clean}))
}

func (s *Service) invalidateStatistics(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyStatistics); err != nil {
		s.log.InternalError("schedules.cache: statistics invalidation failed", err)
	}
}

// GroupByDate keys schedules by their ISO duty date, keeping the input order within a day.
func GroupByDate(items []DutySchedule) map[string][]DutySchedule {
	grouped := make(map[string][]DutySchedule)
	for _, item := range items {
		key := item.DutyDate.Format(DateLayout)
		grouped[key] = append(grouped[key], item)
	}
	return grouped
}

func normalizeTimes(start, end string) (string, string, validation.Errors) {
	errs := validation.Errors{}
	parse := func(field, value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		clock, err := ParseClock(value)
		if err != nil {
			errs.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" must be in HH:MM format")
			return value
		}
		return clock
	}
	return parse("start_time", start, DefaultStartTime), parse("end_time", end, DefaultEndTime), errs
}

func validateRange(from, to time.Time) error {
	if to.Before(from) {
		return ErrInvalidDateRange
	}
	if DaysBetween(from, to) > MaxRangeDays {
		return ErrRangeTooLarge
	}
	return nil
}

func summarize(errs validation.Errors) string {
	var messages []string
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		messages = append(messages, errs[field]...)
	}
	return strings.Join(messages, "; ")
}

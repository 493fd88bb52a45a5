package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/logging"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// rosterServiceImpl implements the RosterService interface. Confirmed
// rosters are cached per day; live rosters depend on now and are rebuilt on
// every call. Concurrent builds of the same roster share one read.
//
// A build only fills the cache when its day was not invalidated since the
// build started reading.
type rosterServiceImpl struct {
	timeService     TimeService
	employeeService EmployeeService
	historyService  HistoryService
	settings        Settings
	cache           *expirable.LRU[string, *Roster]
	group           singleflight.Group

	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64
}

type rosterGeneration struct {
	epoch uint64
	day   uint64
}

// flightKey names a build of one day in one generation; callers arriving
// after an invalidation start a fresh build instead of joining a stale one.
func (g rosterGeneration) flightKey(day, kind string) string {
	return fmt.Sprintf("%s/%s/%d.%d", day, kind, g.epoch, g.day)
}

// NewRosterService creates a new RosterService instance
func NewRosterService(timeService TimeService, employeeService EmployeeService, historyService HistoryService, settings Settings) RosterService {
	settings = settings.withDefaults()
	return &rosterServiceImpl{
		timeService:     timeService,
		employeeService: employeeService,
		historyService:  historyService,
		settings:        settings,
		cache:           expirable.NewLRU[string, *Roster](settings.RosterSize, nil, settings.RosterTTL),
		gens:            make(map[string]uint64),
	}
}

func (r *rosterServiceImpl) generation(key string) rosterGeneration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rosterGeneration{epoch: r.epoch, day: r.gens[key]}
}

// cacheIfCurrent stores roster unless key was invalidated after gen was taken.
func (r *rosterServiceImpl) cacheIfCurrent(key string, gen rosterGeneration, roster *Roster) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != (rosterGeneration{epoch: r.epoch, day: r.gens[key]}) {
		return false
	}
	r.cache.Add(key, roster)
	return true
}

func modeLabel(mode domain.OpenSessionMode) string {
	if mode == domain.LiveUntilNow {
		return "live"
	}
	return "confirmed"
}

// Roster returns every employee who punched on day, ordered by most recent
// clock-out.
func (r *rosterServiceImpl) Roster(ctx context.Context, day time.Time, mode domain.OpenSessionMode) (*Roster, error) {
	key := domain.DayKey(r.timeService.StartOfDay(day))

	if mode == domain.ConfirmedOnly {
		if cached, ok := r.cache.Get(key); ok {
			return cached, nil
		}
	}

	gen := r.generation(key)
	v, err, shared := r.group.Do(gen.flightKey(key, modeLabel(mode)), func() (interface{}, error) {
		built, err := r.build(ctx, day, mode)
		if err != nil {
			return nil, err
		}
		if mode == domain.ConfirmedOnly && !r.cacheIfCurrent(key, gen, built.roster) {
			logging.Component(ctx, r.settings.Logger, "roster", "build").
				Debug("roster invalidated during build, not cached", "day", key)
		}
		return built.roster, nil
	})
	if err != nil {
		return nil, err
	}

	logging.Component(ctx, r.settings.Logger, "roster", "build").
		Debug("roster ready", "day", key, "mode", modeLabel(mode), "shared", shared)
	return v.(*Roster), nil
}

type rosterBuild struct {
	roster *Roster
	result domain.BuildResult
	events []domain.PunchEvent
}

func (r *rosterServiceImpl) build(ctx context.Context, day time.Time, mode domain.OpenSessionMode) (rosterBuild, error) {
	day = r.timeService.StartOfDay(day)
	events, skipped, err := r.historyService.FetchEvents(ctx, "", DateRange{From: day, To: day})
	if err != nil {
		return rosterBuild{}, err
	}

	opts := r.timeService.BuildOptions(mode)
	result := domain.BuildRoster(events, opts)
	result.Skipped = skipped

	roster := &Roster{
		Date:         domain.DayKey(day),
		Mode:         modeLabel(mode),
		Open:         domain.FormatClock(int(opts.Window.Open / time.Minute)),
		Close:        domain.FormatClock(int(opts.Window.Close / time.Minute)),
		Schedules:    make([]ScheduleView, 0, len(result.Order)),
		SkippedCount: len(skipped),
		GeneratedAt:  opts.Now,
	}
	for _, sched := range result.Ordered() {
		roster.Schedules = append(roster.Schedules, scheduleView(sched))
	}
	return rosterBuild{roster: roster, result: result, events: events}, nil
}

func scheduleView(sched *domain.EmployeeDaySchedule) ScheduleView {
	view := ScheduleView{
		EmployeeID:   sched.EmployeeID,
		Name:         sched.DisplayName,
		Work:         make([]SegmentView, 0, len(sched.WorkSegments)),
		Breaks:       make([]SegmentView, 0, len(sched.BreakSegments)),
		LastClockOut: sched.LastClockOut,
	}
	for _, w := range sched.WorkSegments {
		view.Work = append(view.Work, SegmentView{
			StartMinute: w.StartMinute,
			EndMinute:   w.EndMinute,
			Position:    w.Position,
			Start:       w.Start,
			End:         w.End,
			Open:        w.Open,
		})
	}
	for _, b := range sched.BreakSegments {
		view.Breaks = append(view.Breaks, SegmentView{
			StartMinute: b.StartMinute,
			EndMinute:   b.EndMinute,
			Start:       b.Start,
			End:         b.End,
			Open:        b.Open,
		})
	}
	return view
}

// AdminSummary reports who is on the floor on day and what the day has cost
// so far. On today open sessions are counted up to now; on other days only
// closed segments count.
func (r *rosterServiceImpl) AdminSummary(ctx context.Context, day time.Time) (*AdminSummary, error) {
	key := domain.DayKey(r.timeService.StartOfDay(day))
	gen := r.generation(key)
	v, err, _ := r.group.Do(gen.flightKey(key, "admin"), func() (interface{}, error) {
		return r.adminSummary(ctx, day)
	})
	if err != nil {
		return nil, err
	}
	return v.(*AdminSummary), nil
}

func (r *rosterServiceImpl) adminSummary(ctx context.Context, day time.Time) (*AdminSummary, error) {
	mode := domain.ConfirmedOnly
	if r.timeService.IsToday(day) {
		mode = domain.LiveUntilNow
	}
	built, err := r.build(ctx, day, mode)
	if err != nil {
		return nil, err
	}

	employees, err := r.employeeService.FetchEmployees(ctx)
	if err != nil {
		return nil, err
	}
	wages := make(map[string]int64, len(employees))
	for _, e := range employees {
		if e.HasWage() {
			wages[e.ID] = e.HourlyWage
		}
	}

	now := r.timeService.Now()
	day = r.timeService.StartOfDay(day)
	summary := &AdminSummary{
		Date:       domain.DayKey(day),
		PosCount:   make(map[string]int),
		ActiveList: make([]ActiveEmployee, 0),
	}

	groups, _ := domain.GroupByEmployee(built.events)

	for _, sched := range built.result.Ordered() {
		minutes := domain.SumClosedMinutes(sched.WorkSegments)
		wage, ok := wages[sched.EmployeeID]
		if !ok {
			wage = r.settings.DefaultHourlyWage
		}
		summary.TotalMinutes += minutes
		summary.LaborCost += domain.ComputePay(minutes, wage)

		if active, ok := activeEmployee(sched, groups[sched.EmployeeID], now, r.settings.DefaultPosition); ok {
			summary.HeadcountNow++
			summary.PosCount[active.Position]++
			summary.ActiveList = append(summary.ActiveList, active)
		}
	}
	summary.TotalWork = domain.FormatClock(summary.TotalMinutes)
	return summary, nil
}

// activeEmployee reports the employee as on the floor when their last punch
// leaves them working or on break.
func activeEmployee(sched *domain.EmployeeDaySchedule, events []domain.PunchEvent, now time.Time, defaultPosition string) (ActiveEmployee, bool) {
	last, found := domain.LastEvent(events)
	if !found || domain.StateFor(last.Type) == domain.StateIdle {
		return ActiveEmployee{}, false
	}

	var clockIn domain.PunchEvent
	for _, ev := range domain.SortEvents(events) {
		if ev.Type == domain.PunchClockIn {
			clockIn = ev
		}
	}
	if !clockIn.HasTimestamp() {
		return ActiveEmployee{}, false
	}

	position := clockIn.Position
	if position == "" {
		position = defaultPosition
	}
	elapsed := 0
	if now.After(clockIn.Timestamp) {
		elapsed = int(now.Sub(clockIn.Timestamp) / time.Minute)
	}
	return ActiveEmployee{
		EmployeeID:     sched.EmployeeID,
		Name:           sched.DisplayName,
		Position:       position,
		ClockInAt:      clockIn.Timestamp.Format("15:04"),
		OnBreak:        domain.StateFor(last.Type) == domain.StateOnBreak,
		ElapsedMinutes: elapsed,
		Elapsed:        domain.FormatClock(elapsed),
	}, true
}

// Invalidate drops the cached roster for day. Builds already reading that
// day will not be cached, and later callers do not join them.
func (r *rosterServiceImpl) Invalidate(day string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[day]++
	r.cache.Remove(day)
}

// Purge drops every cached roster
func (r *rosterServiceImpl) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	r.gens = make(map[string]uint64)
	r.cache.Purge()
}

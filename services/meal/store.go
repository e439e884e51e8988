// Package meal keeps the in-memory DailyMeals of a session and mirrors every
// change to the local tier and, for signed-in users, to the remote tier.
package meal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"meal-tracker/enums"
	"meal-tracker/services/auth"
	"meal-tracker/services/storage"
	"meal-tracker/structs"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownMeal   = errors.New("unknown meal")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNotLoaded     = errors.New("no day loaded")
	ErrInvalidDevice = errors.New("invalid device id")
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Publisher announces a day that reached the remote tier.
type Publisher interface {
	Publish(queue string, body interface{}) error
}

// Deps are the collaborators shared by every Store.
type Deps struct {
	Local     storage.Tier
	Remote    storage.Tier
	Publisher Publisher
	Queue     string
	Logger    logrus.FieldLogger
}

type Store struct {
	deps    Deps
	session *auth.Session
	device  string

	mu      sync.Mutex
	current structs.DailyMeals
	loaded  bool

	// per-date sequence numbers of issued and written snapshots
	seqMu   sync.Mutex
	issued  map[string]uint64
	writeMu sync.Mutex
	written map[string]uint64
	pending sync.WaitGroup
}

// NewStore returns a store for session. A nil session stores to the local tier only.
func NewStore(deps Deps, session *auth.Session) *Store {
	if deps.Queue == "" {
		deps.Queue = enums.DailyMealsQueue
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Store{
		deps:    deps,
		session: session,
		issued:  make(map[string]uint64),
		written: make(map[string]uint64),
	}
}

// NewDeviceStore returns a local-only store for one anonymous device, kept
// apart from the stores of other devices.
func NewDeviceStore(deps Deps, deviceID string) (*Store, error) {
	if !deviceIDPattern.MatchString(deviceID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDevice, deviceID)
	}
	store := NewStore(deps, nil)
	store.device = deviceID
	return store, nil
}

// localKey is the local tier partition of the store.
func (s *Store) localKey() string {
	if userID := s.userID(); userID != "" {
		return userID
	}
	if s.device != "" {
		return storage.DeviceKey(s.device)
	}
	return ""
}

func (s *Store) userID() string {
	if s.session == nil {
		return ""
	}
	return s.session.UserID
}

func (s *Store) log() *logrus.Entry {
	return s.deps.Logger.WithFields(logrus.Fields{"task": "meal", "user_id": s.userID()})
}

// Load makes the record of date the current one: the remote row when the
// session has a user, else the local copy, else a fresh default day.
func (s *Store) Load(ctx context.Context, date string) (structs.DailyMeals, error) {
	if _, err := time.Parse(enums.DateLayout, date); err != nil {
		return structs.DailyMeals{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var tiers []storage.Tier
	if s.userID() != "" && s.deps.Remote != nil {
		tiers = append(tiers, s.deps.Remote)
	}
	tiers = append(tiers, s.deps.Local)

	day, source, err := storage.NewChain(s.deps.Logger, tiers...).Find(ctx, s.localKey(), date)
	if err != nil {
		day = structs.DefaultDailyMeals(date)
		source = "default"
	}
	day.Date = date
	day = day.Normalize()
	s.log().WithFields(logrus.Fields{"date": date, "source": source}).Debug("day loaded")

	s.mu.Lock()
	s.current = day
	s.loaded = true
	s.mu.Unlock()
	return day.Clone(), nil
}

// Ensure loads date unless it is already the current day.
func (s *Store) Ensure(ctx context.Context, date string) (structs.DailyMeals, error) {
	s.mu.Lock()
	if s.loaded && s.current.Date == date {
		day := s.current.Clone()
		s.mu.Unlock()
		return day, nil
	}
	s.mu.Unlock()
	return s.Load(ctx, date)
}

// Current returns a copy of the in-memory day.
func (s *Store) Current() (structs.DailyMeals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone(), s.loaded
}

// Toggle flips the status of mealID between eaten and not-eaten and persists the day.
func (s *Store) Toggle(mealID string) (structs.DailyMeals, error) {
	return s.update(mealID, func(meal *structs.Meal) {
		if meal.Status == enums.Eaten {
			meal.Status = enums.NotEaten
		} else {
			meal.Status = enums.Eaten
		}
	})
}

// SetNote replaces the note of mealID and persists the day.
func (s *Store) SetNote(mealID, note string) (structs.DailyMeals, error) {
	return s.update(mealID, func(meal *structs.Meal) {
		meal.Note = note
	})
}

func (s *Store) update(mealID string, change func(*structs.Meal)) (structs.DailyMeals, error) {
	if !structs.IsMealID(mealID) {
		return structs.DailyMeals{}, fmt.Errorf("%w: %q", ErrUnknownMeal, mealID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return structs.DailyMeals{}, ErrNotLoaded
	}
	for i := range s.current.Meals {
		if s.current.Meals[i].ID == mealID {
			change(&s.current.Meals[i])
		}
	}
	day := s.current.Clone()
	// issued under mu so write order follows mutation order
	s.Persist(day)
	return day, nil
}

// Persist writes day in the background: local tier first, then the remote
// tier when the session has a user. Failures are logged, never returned.
// A snapshot older than one already written for the same date is skipped.
func (s *Store) Persist(day structs.DailyMeals) {
	s.seqMu.Lock()
	s.issued[day.Date]++
	seq := s.issued[day.Date]
	s.seqMu.Unlock()
	snapshot := day.Clone()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.write(seq, snapshot)
	}()
}

// Wait blocks until every Persist issued so far has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

func (s *Store) write(seq uint64, day structs.DailyMeals) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if seq <= s.written[day.Date] {
		s.log().WithFields(logrus.Fields{"date": day.Date, "seq": seq}).Debug("stale snapshot skipped")
		return
	}
	s.written[day.Date] = seq

	ctx := context.Background()
	userID := s.userID()
	if err := s.deps.Local.Save(ctx, s.localKey(), day); err != nil {
		s.log().WithFields(logrus.Fields{"date": day.Date, "tier": s.deps.Local.Name()}).Error(err.Error())
	}
	if userID == "" || s.deps.Remote == nil {
		return
	}
	if err := s.deps.Remote.Save(ctx, userID, day); err != nil {
		s.log().WithFields(logrus.Fields{"date": day.Date, "tier": s.deps.Remote.Name()}).Error(err.Error())
		return
	}
	s.announce(day)
}

func (s *Store) announce(day structs.DailyMeals) {
	if s.deps.Publisher == nil {
		return
	}
	message := structs.DayUpdatedMessage{
		UserID:    s.userID(),
		Date:      day.Date,
		Eaten:     day.EatenCount(),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		QueueType: s.deps.Queue,
	}
	if err := s.deps.Publisher.Publish(s.deps.Queue, message); err != nil {
		s.log().WithFields(logrus.Fields{"date": day.Date, "queue": s.deps.Queue}).Warn(err.Error())
	}
}

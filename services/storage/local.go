package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"meal-tracker/enums"
	"meal-tracker/structs"
)

const (
	anonymousDir   = "anonymous"
	devicePrefix   = "device-"
	localKeyPrefix = "meals_"
	localKeySuffix = ".json"
	tempFilePrefix = "meals-tmp-"
)

var ErrInvalidKey = errors.New("invalid local storage key")

// localEntry mirrors the remote row shape.
type localEntry struct {
	UserID    string         `json:"user_id,omitempty"`
	Date      string         `json:"date"`
	Meals     []structs.Meal `json:"meals"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LocalTier keeps one JSON file per date under a directory per user:
// <root>/<user>/meals_<date>.json. Records without a user go to "anonymous",
// records of an anonymous device to the directory named by DeviceKey.
type LocalTier struct {
	root string
	mu   sync.Mutex
	now  func() time.Time
}

func NewLocalTier(root string) *LocalTier {
	return &LocalTier{root: root, now: time.Now}
}

func (l *LocalTier) Name() string {
	return "local"
}

// DeviceKey is the partition of an anonymous device. User ids are UUIDs and never take this form.
func DeviceKey(deviceID string) string {
	return devicePrefix + deviceID
}

// Key is the file name a date is stored under.
func Key(date string) string {
	return localKeyPrefix + date + localKeySuffix
}

func (l *LocalTier) Find(ctx context.Context, userID, date string) (structs.DailyMeals, error) {
	file, err := l.path(userID, date)
	if err != nil {
		return structs.DailyMeals{}, err
	}
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return structs.DailyMeals{}, ErrNotFound
	}
	if err != nil {
		return structs.DailyMeals{}, fmt.Errorf("read %s: %w", file, err)
	}
	var entry localEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return structs.DailyMeals{}, fmt.Errorf("decode %s: %w", file, err)
	}
	if entry.Date == "" {
		entry.Date = date
	}
	return structs.DailyMeals{Date: entry.Date, Meals: entry.Meals}, nil
}

func (l *LocalTier) Save(ctx context.Context, userID string, day structs.DailyMeals) error {
	file, err := l.path(userID, day.Date)
	if err != nil {
		return err
	}
	data, err := json.Marshal(localEntry{UserID: userID, Date: day.Date, Meals: day.Meals, UpdatedAt: l.now()})
	if err != nil {
		return fmt.Errorf("encode %s: %w", day.Date, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(file), err)
	}
	return writeFileAtomic(file, data, 0644)
}

// Dates lists the dates stored for a user, oldest first.
func (l *LocalTier) Dates(ctx context.Context, userID string) ([]string, error) {
	dir, err := l.dir(userID)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, localKeyPrefix+"*"+localKeySuffix))
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(matches))
	for _, match := range matches {
		date := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(match), localKeyPrefix), localKeySuffix)
		if _, err := time.Parse(enums.DateLayout, date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (l *LocalTier) dir(userID string) (string, error) {
	if userID == "" {
		return filepath.Join(l.root, anonymousDir), nil
	}
	if userID == anonymousDir || userID != filepath.Base(userID) || strings.HasPrefix(userID, ".") {
		return "", fmt.Errorf("%w: user %q", ErrInvalidKey, userID)
	}
	return filepath.Join(l.root, userID), nil
}

func (l *LocalTier) path(userID, date string) (string, error) {
	if _, err := time.Parse(enums.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date %q", ErrInvalidKey, date)
	}
	dir, err := l.dir(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Key(date)), nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}

// Package localstore is the durable local persistence layer: a small
// key-value store on an embedded sqlite database. It holds the cart, the
// order fallback cache and the admin product snapshot, and hands out
// best-effort change notifications so independent readers of the same key
// can re-read after an external write.
package localstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one persisted key with its JSON-encoded value.
type Entry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB

	mu       sync.Mutex
	watchers map[string]map[int]func()
	nextID   int
}

// Open creates or opens the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("localstore: migrate: %w", err)
	}
	return &Store{db: db, watchers: make(map[string]map[int]func())}, nil
}

// Get reads the value stored under key into v. The boolean reports whether
// the key existed.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	var entry Entry
	err := s.db.First(&entry, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localstore: get %s: %w", key, err)
	}
	if err := json.Unmarshal(entry.Value, v); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

// Put writes v under key, replacing any previous value, and notifies
// watchers of that key.
func (s *Store) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	entry := Entry{Key: key, Value: raw, UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("localstore: put %s: %w", key, err)
	}

	s.notify(key)
	return nil
}

// Delete removes a key. Removing an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

// Watch registers fn to run after every write to key. The returned cancel
// func is idempotent. Notifications are best-effort refresh signals, not a
// transactional guarantee; concurrent writers resolve last-write-wins.
func (s *Store) Watch(key string, fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[int]func())
	}
	s.watchers[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers[key], id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.watchers[key]))
	for _, fn := range s.watchers[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

package meal

import (
	"sync"

	"meal-tracker/enums"
	"meal-tracker/services/auth"
	"meal-tracker/services/storage"

	"github.com/sirupsen/logrus"
)

// Registry owns one Store per live session.
type Registry struct {
	deps   Deps
	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Registry{deps: deps, stores: make(map[string]*Store)}
}

const anonymousKey = "anonymous"

// Store returns the store of session, creating it on first use. Requests
// without a session or a device id share one local-only store.
func (r *Registry) Store(session *auth.Session) *Store {
	key := anonymousKey
	if session != nil {
		key = session.ID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[key]; ok {
		return store
	}
	store := NewStore(r.deps, session)
	r.stores[key] = store
	return store
}

// Device returns the local-only store of an anonymous device, creating it on first use.
func (r *Registry) Device(deviceID string) (*Store, error) {
	key := storage.DeviceKey(deviceID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[key]; ok {
		return store, nil
	}
	store, err := NewDeviceStore(r.deps, deviceID)
	if err != nil {
		return nil, err
	}
	r.stores[key] = store
	return store, nil
}

// Drop forgets the store of a session after its pending writes finish.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	store, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	r.mu.Unlock()
	if ok {
		store.Wait()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Watch drops stores of signed-out sessions until events is closed.
func (r *Registry) Watch(events <-chan auth.Event) {
	for event := range events {
		if event.Type != enums.SignedOut {
			continue
		}
		r.Drop(event.Session.ID)
		r.deps.Logger.WithFields(logrus.Fields{"task": "meal", "session_id": event.Session.ID}).Debug("store released")
	}
}

// Wait blocks until every store has flushed its pending writes.
func (r *Registry) Wait() {
	r.mu.Lock()
	stores := make([]*Store, 0, len(r.stores))
	for _, store := range r.stores {
		stores = append(stores, store)
	}
	r.mu.Unlock()
	for _, store := range stores {
		store.Wait()
	}
}

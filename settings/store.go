package settings

import "sync"

// Store holds the current settings snapshot. Reads return a value copy;
// updates replace the whole snapshot under the lock, so a renderer that
// loaded a snapshot mid-frame never observes a partial update.
type Store struct {
	mu      sync.RWMutex
	current Settings
	presets map[string]Settings
	subs    []chan Settings
}

// NewStore creates a store seeded with the given settings.
func NewStore(s Settings) *Store {
	return &Store{
		current: s.Sanitize(),
		presets: make(map[string]Settings),
	}
}

// Load returns the current snapshot.
func (st *Store) Load() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Update applies fn to a copy of the current settings, sanitizes the
// result, installs it as the new snapshot, and notifies subscribers.
func (st *Store) Update(fn func(Settings) Settings) Settings {
	st.mu.Lock()
	next := fn(st.current).Sanitize()
	st.current = next
	subs := make([]chan Settings, len(st.subs))
	copy(subs, st.subs)
	st.mu.Unlock()

	for _, ch := range subs {
		// Drop rather than block: subscribers poll the latest snapshot
		// anyway, the channel is just a change signal.
		select {
		case ch <- next:
		default:
		}
	}

	return next
}

// Subscribe returns a channel receiving each new snapshot. The channel
// is buffered by one; slow readers miss intermediate snapshots but
// always see the change signal.
func (st *Store) Subscribe() <-chan Settings {
	ch := make(chan Settings, 1)
	st.mu.Lock()
	st.subs = append(st.subs, ch)
	st.mu.Unlock()
	return ch
}

// SavePreset captures the current snapshot under name for the session.
func (st *Store) SavePreset(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.presets[name] = st.current
}

// RecallPreset installs a previously saved snapshot. It reports whether
// the preset existed.
func (st *Store) RecallPreset(name string) bool {
	st.mu.Lock()
	preset, ok := st.presets[name]
	st.mu.Unlock()

	if ok {
		st.Update(func(Settings) Settings { return preset })
	}
	return ok
}

// PresetNames lists saved presets.
func (st *Store) PresetNames() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	names := make([]string, 0, len(st.presets))
	for name := range st.presets {
		names = append(names, name)
	}
	return names
}

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"notemap/config"
	"notemap/snapshot"
)

const defaultSaveTimeout = 5 * time.Second

// Autosaver writes every recorded document state to a store. It satisfies
// the document sink interface.
type Autosaver struct {
	store      Store
	docKey     string
	versionKey string
	timeout    time.Duration
	log        *zap.Logger

	mu   sync.Mutex
	last []byte
}

type AutosaveOption func(*Autosaver)

// WithKeys overrides the document and version keys.
func WithKeys(keys config.KeysConfig) AutosaveOption {
	return func(a *Autosaver) {
		if keys.Document != "" {
			a.docKey = keys.Document
		}
		if keys.Version != "" {
			a.versionKey = keys.Version
		}
	}
}

func WithLogger(l *zap.Logger) AutosaveOption {
	return func(a *Autosaver) {
		if l != nil {
			a.log = l
		}
	}
}

// WithTimeout bounds each save.
func WithTimeout(d time.Duration) AutosaveOption {
	return func(a *Autosaver) { a.timeout = d }
}

func NewAutosaver(s Store, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		store:      s,
		docKey:     config.DefaultDocumentKey,
		versionKey: config.DefaultVersionKey,
		timeout:    defaultSaveTimeout,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Persist stores env under the document key.
func (a *Autosaver) Persist(env *snapshot.Envelope) error {
	data, err := snapshot.Encode(env, false)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.store.Save(ctx, a.docKey, data); err != nil {
		return fmt.Errorf("autosave: %w", err)
	}

	a.mu.Lock()
	a.last = data
	a.mu.Unlock()
	a.log.Debug("document saved", zap.String("key", a.docKey), zap.Int("bytes", len(data)))
	return nil
}

// Restore loads the saved document. It returns ErrNotFound when nothing has
// been saved yet and snapshot.ErrMalformed when the saved value is unusable.
func (a *Autosaver) Restore(ctx context.Context) (*snapshot.Snapshot, error) {
	data, err := a.store.Load(ctx, a.docKey)
	if err != nil {
		return nil, err
	}
	env, err := snapshot.Decode(data)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.last = data
	a.mu.Unlock()
	return env.Data, nil
}

// IsOwnWrite reports whether data is exactly what this autosaver last
// wrote or read, so a watcher can skip its own saves.
func (a *Autosaver) IsOwnWrite(data []byte) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last != nil && bytes.Equal(a.last, data)
}

// CheckVersion records current as the running version. It reports the
// previously recorded version and whether it differs; a first run is not
// an update.
func (a *Autosaver) CheckVersion(ctx context.Context, current string) (updated bool, previous string, err error) {
	stored, err := a.store.Load(ctx, a.versionKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return false, "", err
	default:
		previous = string(stored)
	}
	if previous == current {
		return false, previous, nil
	}
	if err := a.store.Save(ctx, a.versionKey, []byte(current)); err != nil {
		return false, previous, err
	}
	updated = previous != ""
	if updated {
		a.log.Info("application updated", zap.String("from", previous), zap.String("to", current))
	}
	return updated, previous, nil
}

// Package persistence maps workspace documents onto a durable slot store.
//
// Snapshots live under SlotKey(id) as JSON; the active note id lives under
// SelectionKey(id) as plain text. Saves and loads of one document id never
// interleave; different ids proceed in parallel.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/repository"
)

const (
	workspacePrefix = "workspace/"
	selectionPrefix = "selection/"
)

func SlotKey(id string) string      { return workspacePrefix + id }
func SelectionKey(id string) string { return selectionPrefix + id }

// Adapter saves, loads and deletes workspace snapshots.
type Adapter struct {
	store repository.SlotStore
	locks *lockTable
	now   func() time.Time
}

type Option func(*Adapter)

// WithClock overrides the save timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func NewAdapter(store repository.SlotStore, opts ...Option) *Adapter {
	a := &Adapter{store: store, locks: newLockTable(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithStore returns an adapter over store that shares a's per-id locks and
// clock. Services use it to run inside a transaction.
func (a *Adapter) WithStore(store repository.SlotStore) *Adapter {
	return &Adapter{store: store, locks: a.locks, now: a.now}
}

// Save writes the full document and returns the save timestamp, which is
// also recorded as the snapshot's lastSavedAt.
func (a *Adapter) Save(ctx context.Context, doc domain.Workspace) (time.Time, error) {
	if doc.ID == "" {
		return time.Time{}, fmt.Errorf("saving workspace: %w", &domain.OperationError{Op: "save", Reason: "document has no id"})
	}
	unlock, err := a.locks.lock(ctx, doc.ID)
	if err != nil {
		return time.Time{}, err
	}
	defer unlock()
	// Once started, a save runs to completion.
	ctx = context.WithoutCancel(ctx)

	at := a.now().UTC()
	doc.LastSavedAt = &at
	data, err := Encode(doc)
	if err != nil {
		return time.Time{}, err
	}
	if err := a.store.Set(ctx, SlotKey(doc.ID), data); err != nil {
		return time.Time{}, storageErr("saving workspace", doc.ID, err)
	}
	return at, nil
}

// Load returns the stored document. It fails with domain.ErrNotFound when no
// snapshot exists and domain.ErrCorrupt when the payload does not validate.
func (a *Adapter) Load(ctx context.Context, id string) (domain.Workspace, error) {
	unlock, err := a.locks.lock(ctx, id)
	if err != nil {
		return domain.Workspace{}, err
	}
	defer unlock()
	ctx = context.WithoutCancel(ctx)

	data, err := a.store.Get(ctx, SlotKey(id))
	if err != nil {
		return domain.Workspace{}, storageErr("loading workspace", id, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("loading workspace %q: %w", id, err)
	}
	if doc.ID != id {
		return domain.Workspace{}, fmt.Errorf("loading workspace %q: %w: snapshot holds id %q", id, domain.ErrCorrupt, doc.ID)
	}
	return doc, nil
}

// Delete removes the snapshot and the stored selection. Deleting an id that
// was never saved is not an error.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	unlock, err := a.locks.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	ctx = context.WithoutCancel(ctx)

	if err := a.store.Remove(ctx, SlotKey(id)); err != nil {
		return storageErr("deleting workspace", id, err)
	}
	if err := a.store.Remove(ctx, SelectionKey(id)); err != nil {
		return storageErr("deleting selection", id, err)
	}
	return nil
}

// SaveSelection stores the active note id for a document. An empty noteID
// clears it.
func (a *Adapter) SaveSelection(ctx context.Context, id, noteID string) error {
	if noteID == "" {
		if err := a.store.Remove(ctx, SelectionKey(id)); err != nil {
			return storageErr("clearing selection", id, err)
		}
		return nil
	}
	if err := a.store.Set(ctx, SelectionKey(id), []byte(noteID)); err != nil {
		return storageErr("saving selection", id, err)
	}
	return nil
}

// LoadSelection returns the stored active note id, or "" if none was saved.
func (a *Adapter) LoadSelection(ctx context.Context, id string) (string, error) {
	data, err := a.store.Get(ctx, SelectionKey(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", storageErr("loading selection", id, err)
	}
	return string(data), nil
}

// ListIDs returns the ids of all stored snapshots.
func (a *Adapter) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := a.store.ListKeys(ctx, workspacePrefix)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w: %w", domain.ErrStorageUnavailable, err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, workspacePrefix))
	}
	return ids, nil
}

// storageErr classifies a store failure: missing slots become
// domain.ErrNotFound, context errors pass through, anything else is
// domain.ErrStorageUnavailable.
func storageErr(action, id string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %q: %w", action, id, domain.ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s %q: %w", action, id, err)
	default:
		return fmt.Errorf("%s %q: %w: %w", action, id, domain.ErrStorageUnavailable, err)
	}
}

// lockTable hands out one lock per document id. Entries are dropped once no
// caller holds or waits for them.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*idLock)}
}

// lock blocks until id is free or ctx is done.
func (t *lockTable) lock(ctx context.Context, id string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &idLock{ch: make(chan struct{}, 1)}
		t.locks[id] = l
	}
	l.refs++
	t.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			t.release(id, l)
		}, nil
	case <-ctx.Done():
		t.release(id, l)
		return nil, ctx.Err()
	}
}

func (t *lockTable) release(id string, l *idLock) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(t.locks, id)
	}
}

func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}

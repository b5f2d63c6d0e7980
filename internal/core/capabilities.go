package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shiftbot/internal/kit"
	"shiftbot/internal/sheets"
	"shiftbot/internal/storage"
)

// Capability names.
//
// This is an *operational* guardrail only (plugins are in-process).
// Capabilities are enforced by wrapping selected ports passed via PluginDeps.
const (
	CapNotifySend     = "notify.send"
	CapSchedulerRead  = "scheduler.read"
	CapSchedulerWrite = "scheduler.write"
	CapSheetsRead     = "sheets.read"
	CapSheetsWrite    = "sheets.write"
	CapStorageRead    = "storage.read"
	CapStorageWrite   = "storage.write"
)

var ErrCapabilityDenied = errors.New("capability denied")

// capRef is a mutable capability set shared by wrappers.
// It enables hot-reload of allowlists without re-initializing plugins.
type capRef struct {
	mu       sync.RWMutex
	allowAll bool
	set      map[string]struct{}
}

func newCapRef(allow []string) *capRef {
	r := &capRef{}
	r.Update(allow)
	return r
}

func (r *capRef) Update(allow []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(allow) == 0 {
		r.allowAll = true
		r.set = nil
		return
	}
	r.allowAll = false
	m := make(map[string]struct{}, len(allow))
	for _, s := range allow {
		if s == "" {
			continue
		}
		m[s] = struct{}{}
	}
	r.set = m
}

func (r *capRef) Allows(cap string) bool {
	if r == nil {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.allowAll {
		return true
	}
	_, ok := r.set[cap]
	return ok
}

func (r *capRef) AllowsAny(caps ...string) bool {
	for _, c := range caps {
		if r.Allows(c) {
			return true
		}
	}
	return false
}

func deny(cap string) error {
	return fmt.Errorf("%w: %s", ErrCapabilityDenied, cap)
}

// --- Wrapped ports ---

type capNotifier struct {
	inner NotifierPort
	caps  *capRef
}

func (n *capNotifier) Notify(ctx context.Context, nn kit.Notification) error {
	if n == nil || n.inner == nil {
		return errors.New("notifier not available")
	}
	if !n.caps.Allows(CapNotifySend) {
		return deny(CapNotifySend)
	}
	return n.inner.Notify(ctx, nn)
}

type capScheduler struct {
	inner SchedulerPort
	caps  *capRef
}

func (s *capScheduler) Enabled() bool {
	if s == nil || s.inner == nil {
		return false
	}
	// Allow read operations if plugin has read or write.
	if !s.caps.AllowsAny(CapSchedulerRead, CapSchedulerWrite) {
		return false
	}
	return s.inner.Enabled()
}

func (s *capScheduler) Location() *time.Location {
	if s == nil || s.inner == nil {
		return time.UTC
	}
	return s.inner.Location()
}

func (s *capScheduler) History() []JobHistoryItem {
	if s == nil || s.inner == nil {
		return nil
	}
	if !s.caps.AllowsAny(CapSchedulerRead, CapSchedulerWrite) {
		return nil
	}
	return s.inner.History()
}

func (s *capScheduler) AddCron(name, spec string, timeout time.Duration, job func(ctx context.Context) error) error {
	if !s.caps.Allows(CapSchedulerWrite) {
		return deny(CapSchedulerWrite)
	}
	return s.inner.AddCron(name, spec, timeout, job)
}

func (s *capScheduler) AddInterval(name string, every time.Duration, timeout time.Duration, job func(ctx context.Context) error) error {
	if !s.caps.Allows(CapSchedulerWrite) {
		return deny(CapSchedulerWrite)
	}
	return s.inner.AddInterval(name, every, timeout, job)
}

func (s *capScheduler) AddDaily(name, atHHMM string, timeout time.Duration, job func(ctx context.Context) error) error {
	if !s.caps.Allows(CapSchedulerWrite) {
		return deny(CapSchedulerWrite)
	}
	return s.inner.AddDaily(name, atHHMM, timeout, job)
}

func (s *capScheduler) Remove(name string) {
	if !s.caps.Allows(CapSchedulerWrite) {
		return
	}
	s.inner.Remove(name)
}

type capSheets struct {
	inner sheets.Store
	caps  *capRef
}

func (st *capSheets) Grid(ctx context.Context, sheet string) ([][]string, error) {
	if st == nil || st.inner == nil {
		return nil, errors.New("sheets not available")
	}
	if !st.caps.AllowsAny(CapSheetsRead, CapSheetsWrite) {
		return nil, deny(CapSheetsRead)
	}
	return st.inner.Grid(ctx, sheet)
}

func (st *capSheets) Create(ctx context.Context, sheet string, rows, cols int) error {
	if st == nil || st.inner == nil {
		return errors.New("sheets not available")
	}
	if !st.caps.Allows(CapSheetsWrite) {
		return deny(CapSheetsWrite)
	}
	return st.inner.Create(ctx, sheet, rows, cols)
}

func (st *capSheets) WriteRange(ctx context.Context, sheet, topLeft string, matrix [][]string) error {
	if st == nil || st.inner == nil {
		return errors.New("sheets not available")
	}
	if !st.caps.Allows(CapSheetsWrite) {
		return deny(CapSheetsWrite)
	}
	return st.inner.WriteRange(ctx, sheet, topLeft, matrix)
}

func (st *capSheets) WriteCells(ctx context.Context, sheet string, writes []sheets.CellWrite) error {
	if st == nil || st.inner == nil {
		return errors.New("sheets not available")
	}
	if !st.caps.Allows(CapSheetsWrite) {
		return deny(CapSheetsWrite)
	}
	return st.inner.WriteCells(ctx, sheet, writes)
}

func (st *capSheets) FreezeRows(ctx context.Context, sheet string, n int) error {
	if st == nil || st.inner == nil {
		return errors.New("sheets not available")
	}
	if !st.caps.Allows(CapSheetsWrite) {
		return deny(CapSheetsWrite)
	}
	return st.inner.FreezeRows(ctx, sheet, n)
}

type capStore struct {
	inner storage.Store
	caps  *capRef
}

func (st *capStore) AppendWriteLog(ctx context.Context, e storage.WriteLogEntry) error {
	if st == nil || st.inner == nil {
		return storage.ErrDisabled
	}
	if !st.caps.Allows(CapStorageWrite) {
		return deny(CapStorageWrite)
	}
	return st.inner.AppendWriteLog(ctx, e)
}

func (st *capStore) RecentWriteLogs(ctx context.Context, limit int) ([]storage.WriteLogEntry, error) {
	if st == nil || st.inner == nil {
		return nil, storage.ErrDisabled
	}
	if !st.caps.AllowsAny(CapStorageRead, CapStorageWrite) {
		return nil, deny(CapStorageRead)
	}
	return st.inner.RecentWriteLogs(ctx, limit)
}

func (st *capStore) PutDedup(ctx context.Context, key string, until time.Time) error {
	if st == nil || st.inner == nil {
		return storage.ErrDisabled
	}
	if !st.caps.Allows(CapStorageWrite) {
		return deny(CapStorageWrite)
	}
	return st.inner.PutDedup(ctx, key, until)
}

func (st *capStore) GetDedup(ctx context.Context, key string) (time.Time, bool, error) {
	if st == nil || st.inner == nil {
		return time.Time{}, false, storage.ErrDisabled
	}
	if !st.caps.AllowsAny(CapStorageRead, CapStorageWrite) {
		return time.Time{}, false, deny(CapStorageRead)
	}
	return st.inner.GetDedup(ctx, key)
}

func (st *capStore) Close() error {
	// plugins should not close the shared store; treat as no-op.
	return nil
}

func wrapServicesForPlugin(s *Services, caps *capRef) *Services {
	if s == nil {
		return nil
	}
	out := &Services{}
	// Location is plain data and not capability-gated.
	out.Location = s.Location
	// Sekai is an outbound read-only client; not gated.
	out.Sekai = s.Sekai
	if s.Scheduler != nil {
		out.Scheduler = &capScheduler{inner: s.Scheduler, caps: caps}
	}
	if s.Notifier != nil {
		out.Notifier = &capNotifier{inner: s.Notifier, caps: caps}
	}
	if s.Sheets != nil {
		out.Sheets = &capSheets{inner: s.Sheets, caps: caps}
	}
	if s.Store != nil {
		out.Store = &capStore{inner: s.Store, caps: caps}
	}
	return out
}

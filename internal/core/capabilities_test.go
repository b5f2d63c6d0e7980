package core

import (
	"context"
	"errors"
	"testing"

	"shiftbot/internal/sheets"
)

func TestCapRefAllows(t *testing.T) {
	r := newCapRef(nil)
	if !r.Allows(CapSheetsWrite) {
		t.Fatal("empty allowlist should allow everything")
	}

	r.Update([]string{CapSheetsRead})
	if r.Allows(CapSheetsWrite) {
		t.Fatal("write should be denied")
	}
	if !r.Allows(CapSheetsRead) {
		t.Fatal("read should be allowed")
	}
	if !r.AllowsAny(CapSheetsRead, CapSheetsWrite) {
		t.Fatal("AllowsAny should match read")
	}

	// hot-reload back to allow-all
	r.Update(nil)
	if !r.Allows(CapStorageWrite) {
		t.Fatal("reset allowlist should allow everything again")
	}
}

func TestCapSheetsGating(t *testing.T) {
	mem := sheets.NewMemory()
	ctx := context.Background()
	if err := mem.Create(ctx, "S", 2, 2); err != nil {
		t.Fatalf("create: %v", err)
	}

	wrapped := &capSheets{inner: mem, caps: newCapRef([]string{CapSheetsRead})}

	if _, err := wrapped.Grid(ctx, "S"); err != nil {
		t.Fatalf("read should pass with sheets.read: %v", err)
	}
	err := wrapped.WriteRange(ctx, "S", "A1", [][]string{{"x"}})
	if !errors.Is(err, ErrCapabilityDenied) {
		t.Fatalf("write should be denied, got %v", err)
	}

	wrapped.caps.Update([]string{CapSheetsRead, CapSheetsWrite})
	if err := wrapped.WriteRange(ctx, "S", "A1", [][]string{{"x"}}); err != nil {
		t.Fatalf("write should pass after grant: %v", err)
	}
}

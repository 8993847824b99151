package checkout

import (
	"strings"
	"testing"
	"time"
)

func TestNewOrderCodeFormat(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	code, err := newOrderCode(now)
	if err != nil {
		t.Fatalf("new order code: %v", err)
	}
	if len(code) != len("ORD20250102")+orderCodeSuffixLen {
		t.Fatalf("unexpected code length: %q", code)
	}
	if !strings.HasPrefix(code, "ORD20250102") {
		t.Fatalf("expected date prefix, got %q", code)
	}
	for _, r := range code[len("ORD20250102"):] {
		if !strings.ContainsRune(orderCodeAlphabet, r) {
			t.Fatalf("suffix char %q outside alphabet", r)
		}
	}
}

func TestNewOrderCodeVaries(t *testing.T) {
	now := time.Now().UTC()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := newOrderCode(now)
		if err != nil {
			t.Fatalf("new order code: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected random suffixes, got %d distinct codes", len(seen))
	}
}

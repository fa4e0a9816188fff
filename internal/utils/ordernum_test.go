package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	num, err := GenerateOrderNumber(now)
	if err != nil {
		t.Fatalf("GenerateOrderNumber: %v", err)
	}

	pattern := regexp.MustCompile(`^ORD-20250314-[0-9a-f]{6}$`)
	if !pattern.MatchString(num) {
		t.Errorf("order number %q does not match expected format", num)
	}
}

func TestGenerateOrderNumberUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 23:30 local is already the next day in UTC.
	now := time.Date(2025, 3, 14, 23, 30, 0, 0, loc)

	num, err := GenerateOrderNumber(now)
	if err != nil {
		t.Fatalf("GenerateOrderNumber: %v", err)
	}
	if want := "ORD-20250315-"; num[:len(want)] != want {
		t.Errorf("order number %q should carry the UTC date prefix %q", num, want)
	}
}

func TestGenerateOrderNumberIsRandomized(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		num, err := GenerateOrderNumber(now)
		if err != nil {
			t.Fatalf("GenerateOrderNumber: %v", err)
		}
		if seen[num] {
			t.Fatalf("duplicate order number %q after %d generations", num, i)
		}
		seen[num] = true
	}
}

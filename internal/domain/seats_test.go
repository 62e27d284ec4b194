package domain

import "testing"

func TestSeatLabels(t *testing.T) {
	labels := SeatLabels(12)
	want := []string{"A1", "A2", "A3", "A4", "A5", "B1", "B2", "B3", "B4", "B5", "C1", "C2"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(labels))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("label %d: want %s got %s", i, want[i], labels[i])
		}
	}
	if got := SeatLabel(26 * SeatColumns); got != "AA1" {
		t.Fatalf("row 27 should be AA, got %s", got)
	}
}

func TestSeatIndexRoundTrip(t *testing.T) {
	for i := 0; i < 200; i++ {
		idx, ok := SeatIndex(SeatLabel(i))
		if !ok || idx != i {
			t.Fatalf("index %d round-tripped to %d (%v)", i, idx, ok)
		}
	}
	for _, bad := range []string{"", "A", "1", "A0", "A6", "A01", "a1x"} {
		if _, ok := SeatIndex(bad); ok {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestValidateSeats(t *testing.T) {
	if err := ValidateSeats([]string{"A1", "D5"}, 20); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := ValidateSeats([]string{"E1"}, 20); !IsValidation(err) {
		t.Fatalf("E1 is outside a 20 seat grid")
	}
	if err := ValidateSeats([]string{"A1", "A1"}, 20); !IsValidation(err) {
		t.Fatalf("duplicate seats must be rejected")
	}
	if err := ValidateSeats(nil, 20); !IsValidation(err) {
		t.Fatalf("empty seats must be rejected")
	}
	if err := ValidateSeats([]string{"Z5"}, 0); err != nil {
		t.Fatalf("unknown grid should only check format, got %v", err)
	}
	if err := ValidateSeats([]string{"ZZZZZZZZZZZZZZZ1"}, 20); !IsValidation(err) {
		t.Fatalf("overlong row label must be rejected, got %v", err)
	}
	if err := ValidateSeats([]string{"ABCD1"}, 0); !IsValidation(err) {
		t.Fatalf("four letter row must be rejected without a grid, got %v", err)
	}
	if _, ok := SeatIndex("ZZZ5"); !ok {
		t.Fatalf("three letter rows are valid")
	}
}

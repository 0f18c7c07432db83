package costbasis

import (
	"slices"
	"testing"
)

func TestNewRangeSwaps(t *testing.T) {
	r := NewRange(NewDate(2025, 3, 1), NewDate(2025, 1, 1))
	if r.From != NewDate(2025, 1, 1) || r.To != NewDate(2025, 3, 1) {
		t.Errorf("NewRange() = %v..%v, want swapped boundaries", r.From, r.To)
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(NewDate(2024, 1, 10), NewDate(2024, 1, 17))
	for _, tt := range []struct {
		on   Date
		want bool
	}{
		{NewDate(2024, 1, 9), false},
		{NewDate(2024, 1, 10), true},
		{NewDate(2024, 1, 13), true},
		{NewDate(2024, 1, 17), true},
		{NewDate(2024, 1, 18), false},
	} {
		if got := r.Contains(tt.on); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.on, got, tt.want)
		}
	}
}

func TestRange_Days(t *testing.T) {
	got := slices.Collect(NewRange(NewDate(2024, 2, 28), NewDate(2024, 3, 1)).Days())
	want := []Date{NewDate(2024, 2, 28), NewDate(2024, 2, 29), NewDate(2024, 3, 1)}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
}

func TestRange_Name(t *testing.T) {
	if got, want := Year(2024).Name(), "Year 2024"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, want := NewRange(NewDate(2024, 2, 1), NewDate(2024, 2, 5)).Name(), "2024-02-01 to 2024-02-05"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}

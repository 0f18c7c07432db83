package costbasis

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestHistory(t *testing.T) {
	var h History
	h.Append(NewDate(2025, 1, 3), decimal.NewFromInt(3))
	h.Append(NewDate(2025, 1, 1), decimal.NewFromInt(1))
	h.Append(NewDate(2025, 1, 2), decimal.NewFromInt(2))
	h.Append(NewDate(2025, 1, 2), decimal.NewFromInt(22)) // overwrite

	if got, want := h.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	var days []Date
	for on := range h.Values() {
		days = append(days, on)
	}
	if days[0] != NewDate(2025, 1, 1) || days[2] != NewDate(2025, 1, 3) {
		t.Errorf("Values() not chronological: %v", days)
	}
	if v, ok := h.Get(NewDate(2025, 1, 2)); !ok || !v.Equal(decimal.NewFromInt(22)) {
		t.Errorf("Get() = %v, %v, want 22, true", v, ok)
	}

	t.Run("ValueAsOf", func(t *testing.T) {
		tests := []struct {
			on     Date
			day    Date
			want   int64
			wantOK bool
		}{
			{NewDate(2024, 12, 31), Date{}, 0, false},
			{NewDate(2025, 1, 1), NewDate(2025, 1, 1), 1, true},
			{NewDate(2025, 1, 3), NewDate(2025, 1, 3), 3, true},
			{NewDate(2025, 2, 1), NewDate(2025, 1, 3), 3, true},
		}
		for _, tt := range tests {
			day, v, ok := h.ValueAsOf(tt.on)
			if ok != tt.wantOK || day != tt.day || !v.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ValueAsOf(%v) = %v, %v, %v, want %v, %v, %v", tt.on, day, v, ok, tt.day, tt.want, tt.wantOK)
			}
		}
	})

	if day, v := h.Latest(); day != NewDate(2025, 1, 3) || !v.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Latest() = %v, %v", day, v)
	}
}

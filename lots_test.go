package costbasis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var lotComparers = cmp.Options{
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Date) bool { return a == b }),
}

func TestLotsConsumeFIFO(t *testing.T) {
	d1, d2 := NewDate(2025, 1, 2), NewDate(2025, 1, 3)
	var q lots
	q.push(Lot{Date: d1, Quantity: Q(10), Cost: EUR(100)})
	q.push(Lot{Date: d2, Quantity: Q(5), Cost: EUR(60)})

	consumed, ok := q.consume(Q(12))
	if !ok {
		t.Fatalf("consume(12) failed")
	}

	wantConsumed := []Lot{
		{Date: d1, Quantity: Q(10), Cost: EUR(100)},
		{Date: d2, Quantity: Q(2), Cost: EUR(24)},
	}
	if diff := cmp.Diff(wantConsumed, consumed, lotComparers); diff != "" {
		t.Errorf("consume(12) mismatch (-want +got):\n%s", diff)
	}

	wantOpen := []Lot{{Date: d2, Quantity: Q(3), Cost: EUR(36)}}
	if diff := cmp.Diff(wantOpen, q.open(), lotComparers); diff != "" {
		t.Errorf("open() mismatch (-want +got):\n%s", diff)
	}
	if got, want := q.open()[0].UnitCost(), EUR(12); !got.Equal(want) {
		t.Errorf("UnitCost() = %v, want %v", got, want)
	}
}

func TestLotsConsumeExactLot(t *testing.T) {
	var q lots
	q.push(Lot{Date: NewDate(2025, 1, 2), Quantity: Q(10), Cost: EUR(100)})
	q.push(Lot{Date: NewDate(2025, 1, 3), Quantity: Q(5), Cost: EUR(60)})

	if _, ok := q.consume(Q(10)); !ok {
		t.Fatalf("consume(10) failed")
	}
	if got, want := len(q.open()), 1; got != want {
		t.Fatalf("len(open()) = %d, want %d", got, want)
	}
	if got, want := q.quantity(), Q(5); !got.Equal(want) {
		t.Errorf("quantity() = %v, want %v", got, want)
	}
}

func TestLotsConsumeTooMuch(t *testing.T) {
	var q lots
	q.push(Lot{Date: NewDate(2025, 1, 2), Quantity: Q(5), Cost: EUR(50)})

	if _, ok := q.consume(Q(6)); ok {
		t.Fatalf("consume(6) succeeded, want failure")
	}
	if got, want := q.quantity(), Q(5); !got.Equal(want) {
		t.Errorf("quantity() after failed consume = %v, want %v", got, want)
	}
	if got, want := q.cost(), EUR(50); !got.Equal(want) {
		t.Errorf("cost() after failed consume = %v, want %v", got, want)
	}
}

func TestLotsSplit(t *testing.T) {
	var q lots
	q.push(Lot{Date: NewDate(2025, 1, 2), Quantity: Q(10), Cost: EUR(100)})
	q.push(Lot{Date: NewDate(2025, 1, 3), Quantity: Q(3), Cost: EUR(45)})
	before := q.cost()

	q.split(decimal.NewFromInt(4))

	if got := q.cost(); !got.Equal(before) {
		t.Errorf("cost() after split = %v, want %v", got, before)
	}
	want := []Lot{
		{Date: NewDate(2025, 1, 2), Quantity: Q(40), Cost: EUR(100)},
		{Date: NewDate(2025, 1, 3), Quantity: Q(12), Cost: EUR(45)},
	}
	if diff := cmp.Diff(want, q.open(), lotComparers); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}
	if got, want := q.open()[1].UnitCost(), EUR(3.75); !got.Equal(want) {
		t.Errorf("UnitCost() = %v, want %v", got, want)
	}
}

func TestLotsIgnoresEmptyLots(t *testing.T) {
	var q lots
	q.push(Lot{Date: NewDate(2025, 1, 2), Quantity: Q(0), Cost: EUR(0)})
	if got := len(q.open()); got != 0 {
		t.Errorf("len(open()) = %d, want 0", got)
	}
}

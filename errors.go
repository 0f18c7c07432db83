package costbasis

import "fmt"

// ValidationError reports a malformed transaction or split in a
// portfolio definition. It aborts the whole load.
type ValidationError struct {
	Record string // "portfolio", "transaction" or "split"
	Index  int    // position in the input list, -1 when not applicable
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Index >= 0 && e.Field != "":
		return fmt.Sprintf("%s #%d: field %q: %s", e.Record, e.Index, e.Field, e.Reason)
	case e.Index >= 0:
		return fmt.Sprintf("%s #%d: %s", e.Record, e.Index, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: field %q: %s", e.Record, e.Field, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Record, e.Reason)
	}
}

// invalid returns a ValidationError on field not bound to an input index yet.
func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Record: "transaction", Index: -1, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// at binds the error to a record position in the input.
func (e *ValidationError) at(record string, index int) *ValidationError {
	e.Record, e.Index = record, index
	return e
}

// InsufficientLotsError reports a sell or withdrawal exceeding the quantity
// held at that date. It signals bad or out-of-order data.
type InsufficientLotsError struct {
	Ticker    string
	Date      Date
	Requested Quantity
	Held      Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("insufficient lots for %s on %s: cannot dispose of %s, only %s held", e.Ticker, e.Date, e.Requested, e.Held)
}

// NoDataError reports that market data has no price for a ticker, either
// at a given date or at all (zero Date).
type NoDataError struct {
	Ticker string
	Date   Date
}

func (e *NoDataError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("no market data for %s", e.Ticker)
	}
	return fmt.Sprintf("no market data for %s on %s", e.Ticker, e.Date)
}

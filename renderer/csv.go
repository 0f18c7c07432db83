package renderer

import (
	"io"

	"github.com/etnz/costbasis"
	"github.com/gocarina/gocsv"
)

// recordRow is the CSV layout of an evolution record.
type recordRow struct {
	Date      string `csv:"date"`
	Ticker    string `csv:"ticker"`
	Quantity  string `csv:"quantity"`
	Price     string `csv:"price"`
	Currency  string `csv:"currency"`
	PriceBase string `csv:"price_base"`
	Value     string `csv:"value"`
	ValueBase string `csv:"value_base"`
	Cost      string `csv:"cost"`
}

// RecordsCSV writes evolution records as CSV with a header line. Amounts
// are plain decimals, the currency of Price and Value is in its own column.
func RecordsCSV(w io.Writer, records []costbasis.Record) error {
	rows := make([]*recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &recordRow{
			Date:      r.Date.String(),
			Ticker:    r.Ticker,
			Quantity:  r.Quantity.String(),
			Price:     r.Price.Decimal().String(),
			Currency:  r.Price.Currency(),
			PriceBase: r.PriceBase.Decimal().String(),
			Value:     r.Value.Decimal().String(),
			ValueBase: r.ValueBase.Decimal().String(),
			Cost:      r.Cost.Decimal().String(),
		})
	}
	return gocsv.Marshal(rows, w)
}

// positionRow is the CSV layout of an open position.
type positionRow struct {
	Ticker    string `csv:"ticker"`
	Currency  string `csv:"currency"`
	Quantity  string `csv:"quantity"`
	Cost      string `csv:"cost"`
	Price     string `csv:"price"`
	PriceDate string `csv:"price_date"`
	Value     string `csv:"value"`
	Return    string `csv:"return"`
	Exact     bool   `csv:"exact"`
}

// PositionsCSV writes the positions of a snapshot as CSV.
func PositionsCSV(w io.Writer, s *costbasis.Snapshot) error {
	rows := make([]*positionRow, 0, len(s.Positions))
	for _, pos := range s.Positions {
		rows = append(rows, &positionRow{
			Ticker:    pos.Ticker,
			Currency:  pos.Currency,
			Quantity:  pos.Quantity.String(),
			Cost:      pos.Cost.Decimal().String(),
			Price:     pos.Price.Decimal().String(),
			PriceDate: pos.PriceDate.String(),
			Value:     pos.ValueBase.Decimal().String(),
			Return:    pos.Return.String(),
			Exact:     pos.Exact,
		})
	}
	return gocsv.Marshal(rows, w)
}

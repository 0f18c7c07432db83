package costbasis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a portfolio definition file.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf guesses the format of a definition file from its extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// jdefinition is the definition file as decoded, before validation.
type jdefinition struct {
	Name         string         `json:"name" yaml:"name"`
	Currency     string         `json:"currency" yaml:"currency"`
	Transactions []jtransaction `json:"transactions" yaml:"transactions"`
	Splits       []jsplit       `json:"splits" yaml:"splits"`
}

// jtransaction uses pointers to tell absent fields from zero ones.
type jtransaction struct {
	Date         *string          `json:"date" yaml:"date"`
	Type         *string          `json:"type" yaml:"type"`
	Ticker       *string          `json:"ticker" yaml:"ticker"`
	Quantity     *decimal.Decimal `json:"quantity" yaml:"quantity"`
	Price        *decimal.Decimal `json:"price" yaml:"price"`
	Currency     string           `json:"currency" yaml:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate" yaml:"exchange_rate"`
	Fee          *decimal.Decimal `json:"fee" yaml:"fee"`
	FeesBase     *decimal.Decimal `json:"fees_base" yaml:"fees_base"`
	Total        *decimal.Decimal `json:"total" yaml:"total"`
	SubtotalBase *decimal.Decimal `json:"subtotal_base" yaml:"subtotal_base"`
	TotalBase    *decimal.Decimal `json:"total_base" yaml:"total_base"`
	Settlement   string           `json:"settlement_currency" yaml:"settlement_currency"`
	Memo         string           `json:"memo" yaml:"memo"`
}

type jsplit struct {
	Date        *string          `json:"date" yaml:"date"`
	Ticker      string           `json:"ticker" yaml:"ticker"`
	SplitFactor *decimal.Decimal `json:"split_factor" yaml:"split_factor"`
	Amount      *decimal.Decimal `json:"amount" yaml:"amount"`
}

// Load reads, validates and builds the portfolio defined in file.
func Load(file string) (*Portfolio, error) {
	def, err := LoadDefinition(file)
	if err != nil {
		return nil, err
	}
	return New(def)
}

// LoadDefinition reads and validates the definition in file.
func LoadDefinition(file string) (Definition, error) {
	f, err := os.Open(file)
	if err != nil {
		return Definition{}, fmt.Errorf("could not open portfolio file %q: %w", file, err)
	}
	defer f.Close()
	def, err := DecodeDefinition(f, FormatOf(file))
	if err != nil {
		return Definition{}, fmt.Errorf("could not load portfolio file %q: %w", file, err)
	}
	return def, nil
}

// DecodeDefinition decodes and validates a definition. Malformed records
// fail with a *ValidationError naming the record index and field.
func DecodeDefinition(r io.Reader, format Format) (Definition, error) {
	var jdef jdefinition
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&jdef); err != nil {
			return Definition{}, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&jdef); err != nil {
			return Definition{}, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return jdef.validate()
}

func (jdef jdefinition) validate() (Definition, error) {
	switch {
	case jdef.Name == "":
		return Definition{}, &ValidationError{Record: "portfolio", Index: -1, Field: "name", Reason: "is required"}
	case jdef.Currency == "":
		return Definition{}, &ValidationError{Record: "portfolio", Index: -1, Field: "currency", Reason: "is required"}
	case !KnownCurrency(jdef.Currency):
		return Definition{}, &ValidationError{Record: "portfolio", Index: -1, Field: "currency", Reason: fmt.Sprintf("unknown currency %q", jdef.Currency)}
	case jdef.Transactions == nil:
		return Definition{}, &ValidationError{Record: "portfolio", Index: -1, Field: "transactions", Reason: "is required"}
	}

	def := Definition{Name: jdef.Name, Currency: jdef.Currency}
	for i, jtx := range jdef.Transactions {
		tx, err := jtx.transaction(jdef.Currency)
		if err != nil {
			return Definition{}, err.at("transaction", i)
		}
		def.Transactions = append(def.Transactions, tx)
	}
	for i, js := range jdef.Splits {
		s, err := js.split(jdef.Currency)
		if err != nil {
			return Definition{}, err.at("split", i)
		}
		def.Splits = append(def.Splits, s)
	}
	return def, nil
}

func (jtx jtransaction) transaction(base string) (Transaction, *ValidationError) {
	switch {
	case jtx.Date == nil:
		return nil, invalid("date", "is required")
	case jtx.Type == nil:
		return nil, invalid("type", "is required")
	case jtx.Quantity == nil:
		return nil, invalid("quantity", "is required")
	}
	on, err := parseDataDate(*jtx.Date)
	if err != nil {
		return nil, invalid("date", "%v", err)
	}
	kind, err := ParseKind(*jtx.Type)
	if err != nil {
		return nil, invalid("type", "%v", err)
	}

	in := TradeInput{
		Date:       on,
		Memo:       jtx.Memo,
		Currency:   jtx.Currency,
		Quantity:   *jtx.Quantity,
		Price:      nullable(jtx.Price),
		Rate:       nullable(jtx.ExchangeRate),
		Fee:        nullable(jtx.Fee),
		Total:      nullable(jtx.Total),
		Subtotal:   nullable(jtx.SubtotalBase),
		TotalBase:  nullable(jtx.TotalBase),
		Settlement: jtx.Settlement,
	}
	if !in.Fee.Valid {
		in.Fee = nullable(jtx.FeesBase)
	}
	if jtx.Ticker != nil {
		in.Ticker = *jtx.Ticker
	}
	if in.Ticker == "" {
		// buying or selling cash is depositing or withdrawing it.
		switch kind {
		case KindBuy:
			kind = KindDeposit
		case KindSell:
			kind = KindWithdrawal
		}
	}

	tx, err := NewTransaction(kind, in, base)
	if err != nil {
		return nil, err.(*ValidationError)
	}
	return tx, nil
}

func (js jsplit) split(base string) (Split, *ValidationError) {
	switch {
	case js.Date == nil:
		return Split{}, invalid("date", "is required")
	case js.SplitFactor == nil:
		return Split{}, invalid("split_factor", "is required")
	}
	on, err := parseDataDate(*js.Date)
	if err != nil {
		return Split{}, invalid("date", "%v", err)
	}
	residual := decimal.Zero
	if js.Amount != nil {
		residual = *js.Amount
	}
	s, err := NewSplit(on, js.Ticker, *js.SplitFactor, residual, base)
	if err != nil {
		return Split{}, err.(*ValidationError)
	}
	return s, nil
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

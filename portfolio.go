package costbasis

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"
)

// Definition is a validated portfolio definition: its name, base currency
// and the transactions and splits in input order.
type Definition struct {
	Name         string
	Currency     string
	Transactions []Transaction
	Splits       []Split
}

// Portfolio owns one Ledger per security and one per cash currency.
// It is built once and is read-only afterward.
type Portfolio struct {
	name    string
	base    string
	start   Date
	end     Date
	ledgers map[string]*Ledger
}

// New builds the ledgers of a portfolio: every transaction and its cash
// projection is appended to the ledger of its instrument, then splits are
// applied and every ledger is put in chronological order.
func New(def Definition) (*Portfolio, error) {
	if !KnownCurrency(def.Currency) {
		return nil, &ValidationError{Record: "portfolio", Index: -1, Field: "currency", Reason: "unknown currency " + def.Currency}
	}
	p := &Portfolio{
		name:    def.Name,
		base:    def.Currency,
		ledgers: make(map[string]*Ledger),
	}

	seq := 0
	add := func(tx Transaction) {
		p.ledger(tx.Instrument()).add(tx, seq)
		seq++
		p.extend(tx.When())
	}

	for i, tx := range def.Transactions {
		if l, ok := p.ledgers[tx.Instrument().Ticker()]; ok && l.Currency() != tx.Instrument().Currency() {
			return nil, invalid("currency", "%s is traded in %s, got %s", l.Ticker(), l.Currency(), tx.Instrument().Currency()).at("transaction", i)
		}
		add(tx)
		for _, c := range project(tx, p.base) {
			add(c)
		}
	}

	seen := make(map[string]bool)
	for i, s := range def.Splits {
		ticker := s.instrument.Ticker()
		key := ticker + " " + s.date.String()
		if seen[key] {
			return nil, invalid("date", "duplicate split of %s on %s", ticker, s.date).at("split", i)
		}
		seen[key] = true

		l, ok := p.ledgers[ticker]
		if !ok {
			log.Warn().Str("ticker", ticker).Stringer("date", s.date).Msg("split of an unknown security ignored")
			continue
		}
		s.instrument = l.instrument
		add(s)
		for _, c := range project(s, p.base) {
			add(c)
		}
	}

	for _, l := range p.ledgers {
		l.sort()
	}
	log.Debug().Str("portfolio", p.name).Int("ledgers", len(p.ledgers)).Int("entries", seq).Msg("portfolio built")
	return p, nil
}

// ledger returns the ledger of an instrument, creating it on first use.
func (p *Portfolio) ledger(i Instrument) *Ledger {
	l, ok := p.ledgers[i.Ticker()]
	if !ok {
		l = newLedger(i, p.base)
		p.ledgers[i.Ticker()] = l
	}
	return l
}

func (p *Portfolio) extend(on Date) {
	if p.start.IsZero() || on.Before(p.start) {
		p.start = on
	}
	if on.After(p.end) {
		p.end = on
	}
}

func (p *Portfolio) Name() string     { return p.name }
func (p *Portfolio) Currency() string { return p.base }

// StartDate returns the date of the oldest transaction.
func (p *Portfolio) StartDate() Date { return p.start }

// EndDate returns the date of the most recent transaction.
func (p *Portfolio) EndDate() Date { return p.end }

// Ledger returns the ledger of a ticker. Cash accounts use CashTicker.
func (p *Portfolio) Ledger(ticker string) (*Ledger, bool) {
	l, ok := p.ledgers[ticker]
	return l, ok
}

// Ledgers iterates over the security ledgers sorted by ticker, then the
// cash ledgers sorted by currency.
func (p *Portfolio) Ledgers() iter.Seq[*Ledger] {
	sorted := slices.SortedFunc(maps.Values(p.ledgers), func(a, b *Ledger) int {
		if ca, cb := IsCash(a.instrument), IsCash(b.instrument); ca != cb {
			if ca {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.Ticker(), b.Ticker())
	})
	return slices.Values(sorted)
}

// Transactions iterates over the entries of every ledger, synthetic cash
// entries included, in chronological order.
func (p *Portfolio) Transactions() iter.Seq[Transaction] {
	var all []entry
	for _, l := range p.ledgers {
		all = append(all, l.entries...)
	}
	slices.SortStableFunc(all, compareEntries)
	return func(yield func(Transaction) bool) {
		for _, e := range all {
			if !yield(e.Transaction) {
				return
			}
		}
	}
}

// Verify replays every ledger up to its last entry and reports all the
// disposals exceeding the held quantity.
func (p *Portfolio) Verify() error {
	var errs []error
	for l := range p.Ledgers() {
		if _, err := l.QuantityAt(p.end); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

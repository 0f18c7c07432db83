package costbasis

import "fmt"

// project returns the cash ledger entries implied by tx. Every buy and
// sell of a security settles in a cash account, dividends credit one, and
// split residuals are paid in base currency. Cash deposits and
// withdrawals already are cash entries and project nothing.
func project(tx Transaction, base string) []Transaction {
	switch v := tx.(type) {
	case Buy:
		memo := fmt.Sprintf("buy %s %s", v.Quantity, v.instrument.Ticker())
		return settle(v.baseCmd, v.Amounts, v.TotalBase.Neg(), Trade, memo)
	case Sell:
		memo := fmt.Sprintf("sell %s %s", v.Quantity, v.instrument.Ticker())
		return settle(v.baseCmd, v.Amounts, v.TotalBase, Trade, memo)
	case Dividend:
		memo := fmt.Sprintf("Dividend received for %s", v.instrument.Ticker())
		return settle(v.baseCmd, v.Amounts, v.TotalBase, DividendCash, memo)
	case Split:
		if !v.Residual.IsPositive() {
			return nil
		}
		account := NewCashAccount(base)
		memo := fmt.Sprintf("Stock split for %s with factor %s", v.instrument.Ticker(), v.Factor)
		return []Transaction{Buy{
			baseCmd: baseCmd{kind: KindBuy, date: v.date, instrument: account, origin: SplitResidual, memo: memo},
			Amounts: cashAmounts(v.Residual, v.Residual, One),
		}}
	}
	return nil
}

// settle returns the cash entry moving flow (in base currency, positive
// for an inflow) on the settlement account of a trade. A zero flow still
// gets its entry, with a zero quantity.
func settle(t baseCmd, a Amounts, flow Money, origin Origin, memo string) []Transaction {
	account := NewCashAccount(a.Settlement)
	kind := KindBuy
	fee := a.Rate.FromBase(a.FeeBase, a.Settlement).Neg()
	if flow.IsNegative() {
		kind = KindSell
		flow = flow.Neg()
		fee = fee.Neg()
	}

	rate, amount := One, flow
	if a.Settlement != flow.Currency() {
		// settled in the instrument currency at the trade rate.
		rate, amount = a.Rate, a.Total.Add(fee)
	}

	b := baseCmd{kind: kind, date: t.date, instrument: account, origin: origin, memo: memo}
	c := cashAmounts(amount, flow, rate)
	if kind == KindSell {
		return []Transaction{Sell{b, c}}
	}
	return []Transaction{Buy{b, c}}
}

// cashAmounts describes amount units of cash worth base in base currency.
func cashAmounts(amount, base Money, rate Rate) Amounts {
	return Amounts{
		Quantity:     amount.AsQuantity(),
		Price:        M(1, amount.Currency()),
		Rate:         rate,
		Total:        amount,
		SubtotalBase: base,
		FeeBase:      M(0, base.Currency()),
		TotalBase:    base,
		Settlement:   amount.Currency(),
	}
}

package domain

import "strings"

// Market is one entry of an exchange's spot market catalog.
type Market struct {
	Symbol string `json:"symbol"`
	Base   string `json:"base"`
	Quote  string `json:"quote"`
	Status string `json:"status"`
}

// Pair renders the market as BASE/QUOTE.
func (m Market) Pair() string {
	return m.Base + "/" + m.Quote
}

// QuotedIn reports whether the market is denominated in the given currency.
func (m Market) QuotedIn(currency string) bool {
	return strings.EqualFold(m.Quote, currency)
}

// Package zakat implements the stateless zakat arithmetic: nisab thresholds
// from current metal prices and the fixed 2.5% rate over eligible wealth.
package zakat

const (
	// Nisab thresholds in grams.
	NisabGoldGrams   = 80.18
	NisabSilverGrams = 561.2

	// Rate is the fixed zakat fraction of eligible wealth.
	Rate = 0.025
)

// NisabGold returns the gold nisab threshold in currency, given the current
// gram price.
func NisabGold(goldGramPrice float64) float64 {
	return NisabGoldGrams * goldGramPrice
}

// NisabSilver returns the silver nisab threshold in currency.
func NisabSilver(silverGramPrice float64) float64 {
	return NisabSilverGrams * silverGramPrice
}

// Due returns the zakat owed on wealth against the given nisab threshold.
// Wealth below nisab owes nothing.
func Due(wealth, nisab float64) float64 {
	if wealth < nisab || wealth <= 0 {
		return 0
	}
	return wealth * Rate
}

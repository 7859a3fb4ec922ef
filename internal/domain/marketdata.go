package domain

// MarketData is the market-data source the analytics modules depend on.
// Implementations return partial data where the upstream omits fields;
// callers treat nil pointers as absent rather than as errors.
type MarketData interface {
	// GetHistory returns daily price bars covering the given lookback
	// period ("2y", "6mo", ...), oldest first.
	GetHistory(symbol string, period string) ([]PriceBar, error)

	// GetTickerInfo returns quote metadata for one symbol.
	GetTickerInfo(symbol string) (*TickerInfo, error)

	// GetAnalystData returns analyst price targets for one symbol.
	GetAnalystData(symbol string) (*AnalystTargets, error)
}

// IsETF reports whether the quote metadata describes an exchange-traded
// fund. A nil info means the type is unknown and is treated as equity.
func IsETF(info *TickerInfo) bool {
	return info != nil && info.QuoteType == "ETF"
}

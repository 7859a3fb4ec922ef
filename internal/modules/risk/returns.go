package risk

// historyPeriod is the lookback used for correlation and VaR inputs.
const historyPeriod = "2y"

// minPricePoints is the minimum usable closes a ticker needs before its
// return series is included.
const minPricePoints = 5

// ReturnsTable holds aligned daily returns, one column per ticker.
// Rows cover only the dates on which every ticker has a return.
type ReturnsTable struct {
	Tickers []string
	Columns [][]float64
}

// Empty reports whether the table has no columns
func (t ReturnsTable) Empty() bool { return len(t.Tickers) == 0 }

// Rows returns the number of aligned return observations
func (t ReturnsTable) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

type returnColumn struct {
	ticker string
	dates  []string
	values map[string]float64
}

// FetchReturns builds the aligned daily-returns table for a set of
// tickers from two years of price history. Tickers with missing history
// or fewer than five usable closes are dropped; rows are restricted to
// dates every remaining ticker traded on.
func (s *Service) FetchReturns(tickers []string) ReturnsTable {
	columns := make([]returnColumn, 0, len(tickers))

	for _, ticker := range tickers {
		bars, err := s.client.GetHistory(ticker, historyPeriod)
		if err != nil || len(bars) == 0 {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("No history, skipping")
			continue
		}

		dates := make([]string, 0, len(bars))
		prices := make([]float64, 0, len(bars))
		for _, b := range bars {
			if b.Close == 0 {
				continue
			}
			dates = append(dates, b.Date.Format("2006-01-02"))
			prices = append(prices, b.Close)
		}
		if len(prices) < minPricePoints {
			continue
		}

		col := returnColumn{
			ticker: ticker,
			dates:  make([]string, 0, len(prices)-1),
			values: make(map[string]float64, len(prices)-1),
		}
		for i := 1; i < len(prices); i++ {
			col.dates = append(col.dates, dates[i])
			col.values[dates[i]] = (prices[i] - prices[i-1]) / prices[i-1]
		}
		columns = append(columns, col)
	}

	if len(columns) == 0 {
		return ReturnsTable{}
	}

	// Inner join on dates: keep only the dates present in every column.
	// The first column's dates are chronological, so the joined rows
	// stay chronological too.
	joined := make([]string, 0, len(columns[0].dates))
	for _, date := range columns[0].dates {
		shared := true
		for _, col := range columns[1:] {
			if _, ok := col.values[date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			joined = append(joined, date)
		}
	}

	table := ReturnsTable{
		Tickers: make([]string, len(columns)),
		Columns: make([][]float64, len(columns)),
	}
	for i, col := range columns {
		table.Tickers[i] = col.ticker
		values := make([]float64, len(joined))
		for j, date := range joined {
			values[j] = col.values[date]
		}
		table.Columns[i] = values
	}
	return table
}

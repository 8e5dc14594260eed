package market

import "time"

// Candidate is one market's qualification snapshot, built fresh each
// scan cycle and never mutated afterwards.
type Candidate struct {
	MarketID    int      `json:"market_id"`
	Question    string   `json:"question"`
	Description string   `json:"description,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Outcomes      []string  `json:"outcomes"`
	OutcomePrices []float64 `json:"outcome_prices"`

	WinningOutcomeIndex int     `json:"winning_outcome_index"`
	WinningProbability  float64 `json:"winning_probability"`

	EndDate              time.Time `json:"end_date"`
	HoursUntilResolution float64   `json:"hours_until_resolution"`

	Active   bool `json:"active"`
	Closed   bool `json:"closed"`
	Archived bool `json:"archived"`
	Funded   bool `json:"funded"`

	Liquidity float64 `json:"liquidity"`
	Volume    float64 `json:"volume"`
	Volume24h float64 `json:"volume_24hr"`
	Spread    float64 `json:"spread"`

	Category Category `json:"category"`

	MeetsLiquidity   bool `json:"meets_liquidity_requirement"`
	MeetsProbability bool `json:"meets_probability_requirement"`
	MeetsTimeWindow  bool `json:"meets_time_requirement"`
	Qualified        bool `json:"is_qualified"`

	// Needed only at execution time, one token per outcome.
	TokenIDs    []string `json:"token_ids,omitempty"`
	ConditionID string   `json:"condition_id,omitempty"`

	ScannedAt time.Time `json:"scanned_at"`
}

// StatusOK reports whether the market is in a tradable state.
func (c *Candidate) StatusOK() bool {
	return c.Active && !c.Closed && !c.Archived && c.Funded
}

// WinningOutcome returns the label of the highest-priced outcome, or
// "" when the index is out of range.
func (c *Candidate) WinningOutcome() string {
	if c.WinningOutcomeIndex < 0 || c.WinningOutcomeIndex >= len(c.Outcomes) {
		return ""
	}
	return c.Outcomes[c.WinningOutcomeIndex]
}

// WinningToken returns the execution token for the winning outcome,
// or "" when token identifiers are missing.
func (c *Candidate) WinningToken() string {
	if c.WinningOutcomeIndex < 0 || c.WinningOutcomeIndex >= len(c.TokenIDs) {
		return ""
	}
	return c.TokenIDs[c.WinningOutcomeIndex]
}

// WinningPrice scans prices for the maximum. Ties resolve to the
// first occurrence.
func WinningPrice(prices []float64) (index int, prob float64) {
	if len(prices) == 0 {
		return -1, 0
	}
	index, prob = 0, prices[0]
	for i, p := range prices[1:] {
		if p > prob {
			index, prob = i+1, p
		}
	}
	return index, prob
}

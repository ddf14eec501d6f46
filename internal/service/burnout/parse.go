package burnout

// predictionsResponse is the JSON schema the oracle must answer with.
// Scores arrive as float64 so fractional or out-of-range values survive
// decoding and get coerced by the domain constructor.
type predictionsResponse struct {
	Predictions []predictionItem `json:"predictions"`
}

type predictionItem struct {
	Date      string  `json:"date"`
	Score     float64 `json:"score"`
	Status    string  `json:"status"`
	Reasoning string  `json:"reasoning"`
}

// Package scoring turns the five idea sub-scores into one overall viability score.
package scoring

// SubScores are the per-idea ratings, conventionally 0-100 each.
type SubScores struct {
	PainLevel        int `json:"painLevel"`
	WillingnessToPay int `json:"willingnessToPay"`
	Competition      int `json:"competition"`
	TAM              int `json:"tam"`
	Feasibility      int `json:"feasibility"`
}

// Weights are expressed in hundredths and must sum to 100.
type Weights struct {
	PainLevel        int
	WillingnessToPay int
	TAM              int
	Feasibility      int
	Competition      int
}

// DefaultWeights is the fixed weighting used for every idea.
var DefaultWeights = Weights{
	PainLevel:        30,
	WillingnessToPay: 25,
	TAM:              20,
	Feasibility:      15,
	Competition:      10,
}

// Sum returns the total weight in hundredths.
func (w Weights) Sum() int {
	return w.PainLevel + w.WillingnessToPay + w.TAM + w.Feasibility + w.Competition
}

// Overall computes the composite score with DefaultWeights.
func Overall(s SubScores) int {
	return DefaultWeights.Overall(s)
}

// Overall computes the weighted score. Competition is inverted (100 - c) so a
// less crowded market scores higher. Halves round up. Inputs are not clamped.
func (w Weights) Overall(s SubScores) int {
	total := s.PainLevel*w.PainLevel +
		s.WillingnessToPay*w.WillingnessToPay +
		s.TAM*w.TAM +
		s.Feasibility*w.Feasibility +
		(100-s.Competition)*w.Competition
	return floorDiv(total+50, 100)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

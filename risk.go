package main

import (
	"math"
	"math/rand"
	"time"
)

// RiskEstimator assigns an SLA risk score to a ticket. The only current
// implementation is simulated; a trained model can replace it behind the
// same interface.
type RiskEstimator interface {
	Estimate(ticket Record) RiskEstimate
}

// SimulatedRiskEstimator draws a uniform score in [0,1). The 0.7/0.4 tier
// thresholds are placeholders carried over from the simulation, not derived
// from real SLA data.
type SimulatedRiskEstimator struct {
	rng *rand.Rand
}

func NewSimulatedRiskEstimator(rng *rand.Rand) *SimulatedRiskEstimator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedRiskEstimator{rng: rng}
}

func (e *SimulatedRiskEstimator) Estimate(ticket Record) RiskEstimate {
	score := math.Round(e.rng.Float64()*100) / 100
	return RiskEstimate{
		Ticket:    ticket[colTicket],
		Prioridad: ticket[colPriority],
		RiesgoSLA: score,
		Alerta:    riskTier(score),
	}
}

// EstimateAll maps the estimator over a snapshot; an empty snapshot yields
// an empty slice, not nil.
func EstimateAll(est RiskEstimator, tickets []Record) []RiskEstimate {
	out := make([]RiskEstimate, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, est.Estimate(t))
	}
	return out
}

func riskTier(score float64) string {
	switch {
	case score > 0.7:
		return "ALTA"
	case score > 0.4:
		return "MEDIA"
	default:
		return "BAJA"
	}
}

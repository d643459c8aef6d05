package market

import (
	"context"
	"time"

	"github.com/soothsayer/adjudicator/internal/domain"
)

// Graduation criteria for promoting a forum market on-chain. Promotion itself
// is out of scope here; a market meeting all criteria is only flagged ready.
const (
	graduationMinCommitments = 5
	graduationMinAgents      = 3
	graduationMinDays        = 7
)

// GraduationCheck is the per-criterion result for one market.
type GraduationCheck struct {
	Name string
	OK   bool
	Have int
	Want int
}

// GraduationReport summarizes one open market's graduation eligibility.
type GraduationReport struct {
	MarketID string
	Question string
	Checks   []GraduationCheck
	Ready    bool
}

// CheckGraduation evaluates every open market against the graduation
// criteria, flags the ready ones on the snapshot, and returns a report per
// market evaluated.
func (s *Service) CheckGraduation(ctx context.Context) ([]GraduationReport, error) {
	book, err := s.store.LoadMarkets(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var reports []GraduationReport

	for id, m := range book.Markets {
		if m.Status != domain.MarketStatusOpen || m.GraduationReady {
			continue
		}

		agents := map[string]struct{}{}
		for _, c := range m.Commitments {
			agents[c.Agent] = struct{}{}
		}
		daysLeft := int(m.Deadline.Sub(now) / (24 * time.Hour))

		sourceType, _ := domain.ParseSource(m.Source)
		automated := 0
		if sourceType == domain.SourceCoingecko {
			automated = 1
		}

		checks := []GraduationCheck{
			{Name: "commitments", OK: len(m.Commitments) >= graduationMinCommitments, Have: len(m.Commitments), Want: graduationMinCommitments},
			{Name: "unique agents", OK: len(agents) >= graduationMinAgents, Have: len(agents), Want: graduationMinAgents},
			{Name: "days to deadline", OK: daysLeft >= graduationMinDays, Have: daysLeft, Want: graduationMinDays},
			{Name: "automated source", OK: automated == 1, Have: automated, Want: 1},
		}

		ready := true
		for _, c := range checks {
			if !c.OK {
				ready = false
				break
			}
		}
		if ready {
			m.GraduationReady = true
		}

		reports = append(reports, GraduationReport{
			MarketID: id,
			Question: m.Question,
			Checks:   checks,
			Ready:    ready,
		})
	}

	if err := s.store.SaveMarkets(ctx, book); err != nil {
		return reports, err
	}
	return reports, nil
}

// Package forecast projects monthly revenue, cost and profit from
// active contractor assignments. Rates on the assignment are the ones
// frozen at creation time, never the live FX table.
package forecast

import (
	"time"

	"OpsLedger/api/constants"
	"OpsLedger/api/contractors/margin"
	"OpsLedger/internal/config"
)

type Assignment struct {
	ID                 string  `json:"id"`
	ContractorID       string  `json:"contractor_id"`
	CustomerID         string  `json:"customer_id"`
	InternalDayRateUSD float64 `json:"internal_day_rate_usd"`
	ExternalDayRate    float64 `json:"external_day_rate"`
	StartDate          string  `json:"start_date"`
	EndDate            *string `json:"end_date,omitempty"`
	Status             string  `json:"status"`
}

type MonthProjection struct {
	Month            string  `json:"month"`
	ProjectedRevenue float64 `json:"projected_revenue"`
	ProjectedCost    float64 `json:"projected_cost"`
	ProjectedProfit  float64 `json:"projected_profit"`
	ActiveCount      int     `json:"active_count"`
}

// Project builds a months-long projection starting at the month
// containing now. An assignment contributes to a month unless it is
// inactive or its end date falls before the first day of that month.
func Project(assignments []Assignment, months int, now time.Time) []MonthProjection {
	if months < 1 {
		months = 1
	}
	out := make([]MonthProjection, 0, months)
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		m := base.AddDate(0, i, 0)
		p := MonthProjection{Month: m.Format(constants.MonthFormat)}
		monthStart := m.Format(constants.DateFormat)
		for _, a := range assignments {
			if !activeDuring(a, monthStart) {
				continue
			}
			res := margin.FromFrozen(a.InternalDayRateUSD, a.ExternalDayRate)
			p.ProjectedRevenue += a.ExternalDayRate * config.WorkingDaysPerMonth
			p.ProjectedCost += a.InternalDayRateUSD * config.WorkingDaysPerMonth
			p.ProjectedProfit += res.MarginUSD * config.WorkingDaysPerMonth
			p.ActiveCount++
		}
		out = append(out, p)
	}
	return out
}

func activeDuring(a Assignment, monthStart string) bool {
	if a.Status != "active" {
		return false
	}
	if a.EndDate != nil && *a.EndDate != "" && *a.EndDate < monthStart {
		return false
	}
	return true
}

package forecast

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func sp(s string) *string { return &s }

var forecastNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func fixtureAssignments() []Assignment {
	return []Assignment{
		{ID: "a1", InternalDayRateUSD: 100, ExternalDayRate: 300, StartDate: "2026-01-01", Status: "active"},
		{ID: "a2", InternalDayRateUSD: 50, ExternalDayRate: 120, StartDate: "2026-03-01", EndDate: sp("2026-09-15"), Status: "active"},
		{ID: "a3", InternalDayRateUSD: 80, ExternalDayRate: 200, StartDate: "2026-01-01", Status: "cancelled"},
	}
}

func TestProjectMonthLabels(t *testing.T) {
	got := Project(fixtureAssignments(), 3, forecastNow)
	if len(got) != 3 {
		t.Fatalf("expected 3 months, got %d", len(got))
	}
	want := []string{"2026-08", "2026-09", "2026-10"}
	for i, w := range want {
		if got[i].Month != w {
			t.Fatalf("month %d: expected %s, got %s", i, w, got[i].Month)
		}
	}
}

func TestProjectSumsActiveAssignments(t *testing.T) {
	got := Project(fixtureAssignments(), 3, forecastNow)

	// August: a1 and a2 both contribute; a3 is cancelled.
	aug := got[0]
	if aug.ActiveCount != 2 {
		t.Fatalf("expected 2 active in August, got %d", aug.ActiveCount)
	}
	if !almostEqual(aug.ProjectedRevenue, (300+120)*21) {
		t.Fatalf("August revenue: got %v", aug.ProjectedRevenue)
	}
	if !almostEqual(aug.ProjectedCost, (100+50)*21) {
		t.Fatalf("August cost: got %v", aug.ProjectedCost)
	}
	if !almostEqual(aug.ProjectedProfit, (200+70)*21) {
		t.Fatalf("August profit: got %v", aug.ProjectedProfit)
	}
}

func TestProjectExcludesEndedAssignments(t *testing.T) {
	got := Project(fixtureAssignments(), 3, forecastNow)

	// a2 ends 2026-09-15: still in September's projection, out of October's.
	sep := got[1]
	if sep.ActiveCount != 2 {
		t.Fatalf("expected a2 active in September, got count %d", sep.ActiveCount)
	}
	oct := got[2]
	if oct.ActiveCount != 1 {
		t.Fatalf("expected only a1 in October, got count %d", oct.ActiveCount)
	}
	if !almostEqual(oct.ProjectedRevenue, 300*21) {
		t.Fatalf("October revenue: got %v", oct.ProjectedRevenue)
	}
	if !almostEqual(oct.ProjectedProfit, 200*21) {
		t.Fatalf("October profit: got %v", oct.ProjectedProfit)
	}
}

func TestProjectClampsMonths(t *testing.T) {
	got := Project(fixtureAssignments(), 0, forecastNow)
	if len(got) != 1 {
		t.Fatalf("expected clamp to 1 month, got %d", len(got))
	}
}

func TestProjectEmptyAssignments(t *testing.T) {
	got := Project(nil, 2, forecastNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	for _, m := range got {
		if m.ProjectedRevenue != 0 || m.ProjectedCost != 0 || m.ProjectedProfit != 0 || m.ActiveCount != 0 {
			t.Fatalf("expected zeroed month, got %+v", m)
		}
	}
}

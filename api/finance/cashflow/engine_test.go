package cashflow

import (
	"reflect"
	"testing"
	"time"

	"OpsLedger/api/fx/rates"
)

var (
	testNow   = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	augRange  = Range{StartDate: "2026-08-01", EndDate: "2026-08-31"}
	testRates = map[string]float64{"USD": 1.0, "INR": 83.0, "EUR": 0.92}
)

func sp(s string) *string   { return &s }
func fp(f float64) *float64 { return &f }
func testFX() *rates.Cache  { return rates.NewStatic(testRates) }

func mixedInputs() Inputs {
	return Inputs{
		Transactions: []Transaction{
			{ID: "r1", Date: "2026-08-10", Type: "revenue", Status: "posted", Amount: 1000, Category: "consulting"},
			{ID: "r2", Date: "2026-08-05", Type: "revenue", Status: "posted", Amount: 2000, Category: "consulting",
				PaymentStatus: sp("partial"), TotalPaid: fp(500), AmountPaid: fp(500), InvoiceDate: sp("2026-08-05"),
				PaymentDate: sp("2026-08-20")},
			{ID: "e1", Date: "2026-08-12", Type: "expense", Status: "posted", Amount: 300, Category: "rent"},
			{ID: "e2", Date: "2026-08-15", Type: "expense", Status: "posted", Amount: 450, Category: "marketing",
				PaymentStatus: sp("unpaid"), InvoiceDate: sp("2026-08-15")},
			{ID: "d1", Date: "2026-08-18", Type: "expense", Status: "draft", Amount: 9999, Category: "rent"},
		},
		Timesheets: []Timesheet{
			{ID: "ts1", Month: "2026-08", ContractorID: "c1", Status: "approved",
				InternalCost: 249000, InternalCostUSD: fp(3000), ExternalRevenue: fp(5000),
				InvoiceStatus: sp("paid"), CustomerPaymentDate: sp("2026-08-25"), CustomerAmountPaid: fp(5000),
				ContractorPaymentStatus: sp("paid"), ContractorPaymentDate: sp("2026-08-28")},
			{ID: "ts2", Month: "2026-07", ContractorID: "c2", Status: "approved",
				InternalCost: 166000, InternalCostUSD: fp(2000), ExternalRevenue: fp(4000),
				InvoiceStatus: sp("invoiced")},
		},
		Payroll: []PayrollRecord{
			{ID: "p1", Month: "2026-08", TeamMemberName: "Asha", NetAmount: 83000, Currency: "INR",
				Status: "paid", PaidDate: sp("2026-08-30")},
			{ID: "p2", Month: "2026-08", TeamMemberName: "Ben", NetAmount: 2500, Currency: "USD", Status: "pending"},
		},
		Distributions: []Distribution{
			{ID: "dist1", PartnerID: "pa", PartnerName: "Pat", Amount: 600, Date: "2026-08-20", Status: "completed"},
			{ID: "dist2", PartnerID: "pb", PartnerName: "Quinn", Amount: 400, Date: "2026-09-01", Status: "pending"},
		},
		Subscriptions: []Subscription{
			{ID: "s1", Vendor: "HostCo", Cost: 120, BillingCycle: "monthly", NextBillingDate: "2026-09-05", Status: "active"},
			{ID: "s2", Vendor: "CRM Inc", Cost: 1200, BillingCycle: "annual", NextBillingDate: "2026-11-01", Status: "active"},
			{ID: "s3", Vendor: "OldTool", Cost: 999, BillingCycle: "monthly", NextBillingDate: "2026-09-09", Status: "cancelled"},
		},
	}
}

func TestComputeDeterministic(t *testing.T) {
	fx := testFX()
	a := Compute(mixedInputs(), augRange, 10000, testNow, fx)
	b := Compute(mixedInputs(), augRange, 10000, testNow, fx)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two identical computations differ")
	}
}

func TestComputeBackwardCompatiblePaidDefault(t *testing.T) {
	in := Inputs{Transactions: []Transaction{
		{ID: "r1", Date: "2026-08-10", Type: "revenue", Status: "posted", Amount: 1000, Category: "consulting"},
	}}
	d := Compute(in, augRange, 0, testNow, testFX())
	if d.Operating.ReceiptsFromCustomers != 1000 {
		t.Fatalf("receipts = %v, want 1000 (legacy posted revenue defaults to paid)", d.Operating.ReceiptsFromCustomers)
	}
	if d.TotalAR != 0 {
		t.Fatalf("totalAR = %v, want 0 (legacy record must not also age)", d.TotalAR)
	}
}

func TestComputeOperatingLines(t *testing.T) {
	d := Compute(mixedInputs(), augRange, 10000, testNow, testFX())

	// r1 legacy 1000 + r2 partial-paid? r2 is partial, not paid: excluded.
	if d.Operating.ReceiptsFromCustomers != 1000 {
		t.Fatalf("receipts = %v, want 1000", d.Operating.ReceiptsFromCustomers)
	}
	if d.Operating.ContractorCustomerReceipts != 5000 {
		t.Fatalf("contractor receipts = %v, want 5000", d.Operating.ContractorCustomerReceipts)
	}
	if d.Operating.ContractorPayments != 3000 {
		t.Fatalf("contractor payments = %v, want 3000", d.Operating.ContractorPayments)
	}
	if !almostEqual(d.Operating.PayrollPayments, 1000) {
		t.Fatalf("payroll = %v, want 1000 (83000 INR at 83)", d.Operating.PayrollPayments)
	}
	// monthly 120 + annual 1200/12, one month in period; cancelled excluded.
	if !almostEqual(d.Operating.SubscriptionPayments, 220) {
		t.Fatalf("subscriptions = %v, want 220", d.Operating.SubscriptionPayments)
	}
	if !d.Operating.SubscriptionsEstimated {
		t.Fatal("subscription line must be flagged as estimated")
	}
	// e1 (rent, legacy paid) only; e2 unpaid, d1 draft.
	if d.Operating.OtherOperatingPayments != 300 {
		t.Fatalf("other operating = %v, want 300", d.Operating.OtherOperatingPayments)
	}
	if d.Financing.PartnerDistributions != 600 || d.Financing.NetFinancing != -600 {
		t.Fatalf("financing = %+v, want 600 / -600", d.Financing)
	}
}

func TestComputeClosingBalanceEquation(t *testing.T) {
	d := Compute(mixedInputs(), augRange, 10000, testNow, testFX())
	if d.TotalInflows != d.Operating.ReceiptsFromCustomers+d.Operating.ContractorCustomerReceipts {
		t.Fatalf("inflows = %v, inconsistent", d.TotalInflows)
	}
	wantOut := d.Operating.ContractorPayments + d.Operating.PayrollPayments +
		d.Operating.SubscriptionPayments + d.Operating.OtherOperatingPayments +
		d.Financing.PartnerDistributions
	if !almostEqual(d.TotalOutflows, wantOut) {
		t.Fatalf("outflows = %v, want %v", d.TotalOutflows, wantOut)
	}
	if d.ClosingBalance != 10000+d.TotalInflows-d.TotalOutflows {
		t.Fatalf("closing = %v, want opening + inflows - outflows exactly", d.ClosingBalance)
	}
}

func TestComputeRunwaySentinel(t *testing.T) {
	in := Inputs{Transactions: []Transaction{
		{ID: "r1", Date: "2026-08-10", Type: "revenue", Status: "posted", Amount: 1000, Category: "consulting"},
	}}
	d := Compute(in, augRange, 5000, testNow, testFX())
	if d.Metrics.MonthlyBurnRate != 0 {
		t.Fatalf("burn = %v, want 0", d.Metrics.MonthlyBurnRate)
	}
	if d.Metrics.CashRunway != 999 {
		t.Fatalf("runway = %v, want sentinel 999", d.Metrics.CashRunway)
	}
}

func TestComputeBurnRateTrailsNowNotRange(t *testing.T) {
	in := Inputs{Transactions: []Transaction{
		// Inside trailing 90 days of now but outside the report range.
		{ID: "e1", Date: "2026-07-15", Type: "expense", Status: "posted", Amount: 3000, Category: "rent"},
		// Far in the past: ignored.
		{ID: "e2", Date: "2025-01-01", Type: "expense", Status: "posted", Amount: 9999, Category: "rent"},
	}}
	d := Compute(in, augRange, 0, testNow, testFX())
	if !almostEqual(d.Metrics.MonthlyBurnRate, 1000) {
		t.Fatalf("burn = %v, want 1000 (trailing 3 months from now)", d.Metrics.MonthlyBurnRate)
	}
}

func TestComputeDaysSalesOutstanding(t *testing.T) {
	in := Inputs{Transactions: []Transaction{
		{ID: "r1", Date: "2026-08-02", Type: "revenue", Status: "posted", Amount: 3100, Category: "consulting",
			PaymentStatus: sp("unpaid"), InvoiceDate: sp("2026-08-21")},
	}}
	// Accrual revenue 3100 over 31 days = 100/day; AR 3100 outstanding.
	d := Compute(in, augRange, 0, testNow, testFX())
	if d.TotalAR != 3100 {
		t.Fatalf("totalAR = %v, want 3100", d.TotalAR)
	}
	if d.Metrics.DaysSalesOutstanding != 31 {
		t.Fatalf("DSO = %v, want 31", d.Metrics.DaysSalesOutstanding)
	}
}

func TestComputeAccrualDeltas(t *testing.T) {
	in := Inputs{Transactions: []Transaction{
		{ID: "r1", Date: "2026-08-02", Type: "revenue", Status: "posted", Amount: 2000, Category: "consulting",
			PaymentStatus: sp("unpaid"), InvoiceDate: sp("2026-08-02")},
	}}
	d := Compute(in, augRange, 0, testNow, testFX())
	if d.Accrual.Revenue != 2000 || d.TotalInflows != 0 {
		t.Fatalf("accrual revenue = %v inflows = %v", d.Accrual.Revenue, d.TotalInflows)
	}
	if d.Accrual.RevenueDelta != 2000 {
		t.Fatalf("revenue delta = %v, want 2000 (earned but uncollected)", d.Accrual.RevenueDelta)
	}
	if d.Accrual.ProfitDelta != d.Accrual.Profit-d.NetCashChange {
		t.Fatalf("profit delta inconsistent: %+v", d.Accrual)
	}
}

func TestComputeAgingTotalsMatchBuckets(t *testing.T) {
	d := Compute(mixedInputs(), augRange, 0, testNow, testFX())

	var arBuckets, apBuckets float64
	for _, b := range d.ARAging {
		arBuckets += b.Amount
	}
	for _, b := range d.APAging {
		apBuckets += b.Amount
	}
	if !almostEqual(d.TotalAR, arBuckets) {
		t.Fatalf("totalAR %v != bucket sum %v", d.TotalAR, arBuckets)
	}
	if !almostEqual(d.TotalAP, apBuckets) {
		t.Fatalf("totalAP %v != bucket sum %v", d.TotalAP, apBuckets)
	}
	// AR: r2 remainder 1500 + ts2 external 4000.
	if !almostEqual(d.TotalAR, 5500) {
		t.Fatalf("totalAR = %v, want 5500", d.TotalAR)
	}
	// AP: e2 450 + ts2 contractor cost 2000 + pending payroll 2500.
	if !almostEqual(d.TotalAP, 4950) {
		t.Fatalf("totalAP = %v, want 4950", d.TotalAP)
	}
}

func TestComputeEmptyRangeYieldsZeroedData(t *testing.T) {
	d := Compute(mixedInputs(), Range{StartDate: "2026-09-01", EndDate: "2026-08-01"}, 7500, testNow, testFX())
	if d.TotalInflows != 0 || d.TotalOutflows != 0 || d.NetCashChange != 0 {
		t.Fatalf("expected zeroed totals, got %+v", d)
	}
	if d.ClosingBalance != 7500 {
		t.Fatalf("closing = %v, want opening carried through", d.ClosingBalance)
	}
	if len(d.ARAging) != 5 {
		t.Fatalf("zeroed data still renders 5 empty buckets, got %d", len(d.ARAging))
	}
}

func TestComputeUpcomingEvents(t *testing.T) {
	d := Compute(mixedInputs(), augRange, 0, testNow, testFX())

	// r2 invoiced 2026-08-05 -> expected 2026-09-04; ts2 month-01 -> 2026-07-31.
	if len(d.UpcomingIn) != 2 {
		t.Fatalf("upcoming inflows = %d, want 2", len(d.UpcomingIn))
	}
	if d.UpcomingIn[0].Date != "2026-07-31" || d.UpcomingIn[1].Date != "2026-09-04" {
		t.Fatalf("inflow dates = %s, %s; want sorted 2026-07-31, 2026-09-04",
			d.UpcomingIn[0].Date, d.UpcomingIn[1].Date)
	}
	if d.UpcomingIn[1].Amount != 1500 {
		t.Fatalf("inflow amount = %v, want remaining 1500", d.UpcomingIn[1].Amount)
	}

	// Pending payroll due month end, active subs at next billing, pending
	// distribution at its date; ascending.
	if len(d.UpcomingOut) != 4 {
		t.Fatalf("upcoming outflows = %d, want 4", len(d.UpcomingOut))
	}
	for i := 1; i < len(d.UpcomingOut); i++ {
		if d.UpcomingOut[i-1].Date > d.UpcomingOut[i].Date {
			t.Fatalf("outflows not sorted: %+v", d.UpcomingOut)
		}
	}
	if d.UpcomingOut[0].Source != "payroll" || d.UpcomingOut[0].Date != "2026-08-31" {
		t.Fatalf("first outflow = %+v, want payroll due 2026-08-31", d.UpcomingOut[0])
	}
}

func TestComputeMalformedRecordsDoNotPoisonAggregates(t *testing.T) {
	in := Inputs{
		Timesheets: []Timesheet{
			// No external revenue recorded yet: contributes 0, not a crash.
			{ID: "bad", Month: "2026-08", Status: "approved", InvoiceStatus: sp("paid"),
				CustomerPaymentDate: sp("2026-08-15")},
		},
		Payroll: []PayrollRecord{
			// Unknown currency degrades to parity instead of failing.
			{ID: "p1", Month: "2026-08", TeamMemberName: "X", NetAmount: 100, Currency: "???",
				Status: "paid", PaidDate: sp("2026-08-20")},
		},
	}
	d := Compute(in, augRange, 0, testNow, testFX())
	if d.Operating.ContractorCustomerReceipts != 0 {
		t.Fatalf("receipts = %v, want 0", d.Operating.ContractorCustomerReceipts)
	}
	if d.Operating.PayrollPayments != 100 {
		t.Fatalf("payroll = %v, want 100 at parity", d.Operating.PayrollPayments)
	}
}

package cashflow

import (
	"fmt"
	"math"
	"sort"
	"time"

	"OpsLedger/api/constants"
	"OpsLedger/api/fx/rates"
	"OpsLedger/internal/config"
)

// Compute derives the full cash position snapshot from one input
// snapshot. Pure and deterministic: identical inputs (including now)
// produce bit-identical output. Burn rate and runway track wall-clock
// time rather than the report range, so now is injected to keep them
// testable.
//
// A range with start after end yields a zeroed Data rather than an error;
// the report must always render something.
func Compute(in Inputs, rng Range, openingBalance float64, now time.Time, fx *rates.Cache) Data {
	d := Data{
		Range:          rng,
		OpeningBalance: openingBalance,
		ARAging:        BucketAging(nil, now),
		APAging:        BucketAging(nil, now),
		UpcomingIn:     []CashEvent{},
		UpcomingOut:    []CashEvent{},
	}
	d.Operating.SubscriptionsEstimated = true
	if rng.StartDate > rng.EndDate {
		d.ClosingBalance = openingBalance
		return d
	}

	// Stage 1+2: realized operating cash, normalized to USD.
	for _, t := range in.Transactions {
		if t.Status != "posted" {
			continue
		}
		cashDate := transactionCashDate(t)
		if !inRange(cashDate, rng.StartDate, rng.EndDate) {
			continue
		}
		switch {
		case revenueCashRealized(t):
			d.Operating.ReceiptsFromCustomers += floatv(t.AmountPaid, t.Amount)
		case expenseCashRealized(t):
			if !isDedicatedExpenseCategory(t.Category) {
				d.Operating.OtherOperatingPayments += floatv(t.AmountPaid, t.Amount)
			}
		}
	}
	for _, ts := range in.Timesheets {
		if timesheetReceiptRealized(ts) && inRange(*ts.CustomerPaymentDate, rng.StartDate, rng.EndDate) {
			d.Operating.ContractorCustomerReceipts += floatv(ts.CustomerAmountPaid, floatv(ts.ExternalRevenue, 0))
		}
		if timesheetContractorPaid(ts) && inRange(*ts.ContractorPaymentDate, rng.StartDate, rng.EndDate) {
			d.Operating.ContractorPayments += floatv(ts.InternalCostUSD, ts.InternalCost)
		}
	}
	for _, p := range in.Payroll {
		if payrollPaid(p) && inRange(*p.PaidDate, rng.StartDate, rng.EndDate) {
			d.Operating.PayrollPayments += fx.ToUSDOrSame(p.NetAmount, p.Currency)
		}
	}

	// Subscriptions are an estimate, not a reconciliation: the data model
	// has no payment events for them, so active subscriptions contribute
	// monthly cost times the period length regardless of billing dates.
	monthsInPeriod := daysBetween(rng.StartDate, rng.EndDate) / 30.0
	if monthsInPeriod < 1 {
		monthsInPeriod = 1
	}
	for _, s := range in.Subscriptions {
		if s.Status != "active" {
			continue
		}
		d.Operating.SubscriptionPayments += monthlyCost(s) * monthsInPeriod
	}

	d.Operating.NetOperating = d.Operating.ReceiptsFromCustomers +
		d.Operating.ContractorCustomerReceipts -
		d.Operating.ContractorPayments -
		d.Operating.PayrollPayments -
		d.Operating.SubscriptionPayments -
		d.Operating.OtherOperatingPayments

	// Stage 3: financing.
	for _, dist := range in.Distributions {
		if distributionCompleted(dist) && inRange(dist.Date, rng.StartDate, rng.EndDate) {
			d.Financing.PartnerDistributions += dist.Amount
		}
	}
	d.Financing.NetFinancing = -d.Financing.PartnerDistributions

	// Stage 4: totals.
	d.TotalInflows = d.Operating.ReceiptsFromCustomers + d.Operating.ContractorCustomerReceipts
	d.TotalOutflows = d.Operating.ContractorPayments + d.Operating.PayrollPayments +
		d.Operating.SubscriptionPayments + d.Operating.OtherOperatingPayments +
		d.Financing.PartnerDistributions
	d.NetCashChange = d.TotalInflows - d.TotalOutflows
	d.ClosingBalance = openingBalance + d.NetCashChange

	// Stage 5: accrual restatement on invoice dates, payment status ignored.
	d.Accrual = accrualComparison(in, rng, d, fx)

	// Stage 6: AR/AP aging.
	arItems := receivableItems(in)
	apItems := payableItems(in, fx)
	d.ARAging = BucketAging(arItems, now)
	d.APAging = BucketAging(apItems, now)
	for _, it := range arItems {
		d.TotalAR += it.RemainingBalance
	}
	for _, it := range apItems {
		d.TotalAP += it.RemainingBalance
	}

	// Stage 7: metrics.
	d.Metrics = computeMetrics(in, rng, d, now)

	// Stage 8: upcoming cash events.
	d.UpcomingIn, d.UpcomingOut = upcomingEvents(in, arItems, fx)

	return d
}

// Dedicated operating lines already capture these expense categories.
func isDedicatedExpenseCategory(category string) bool {
	switch category {
	case "payroll", "contractors", "software":
		return true
	}
	return false
}

func monthlyCost(s Subscription) float64 {
	if s.BillingCycle == "annual" {
		return s.Cost / 12
	}
	return s.Cost
}

// daysBetween is whole days from start to end on ISO dates; zero when
// either fails to parse.
func daysBetween(start, end string) float64 {
	s, err1 := time.Parse(constants.DateFormat, start)
	e, err2 := time.Parse(constants.DateFormat, end)
	if err1 != nil || err2 != nil {
		return 0
	}
	return e.Sub(s).Hours() / 24
}

// accrualDate is the recognition date: invoice date when present,
// transaction date otherwise.
func accrualDate(t Transaction) string {
	if t.InvoiceDate != nil && *t.InvoiceDate != "" {
		return *t.InvoiceDate
	}
	return t.Date
}

func accrualComparison(in Inputs, rng Range, cash Data, fx *rates.Cache) AccrualComparison {
	var a AccrualComparison
	for _, t := range in.Transactions {
		if t.Status != "posted" || !inRange(accrualDate(t), rng.StartDate, rng.EndDate) {
			continue
		}
		switch t.Type {
		case "revenue":
			a.Revenue += t.Amount
		case "expense":
			a.Expenses += t.Amount
		}
	}
	for _, ts := range in.Timesheets {
		if !inRange(ts.Month+"-01", rng.StartDate, rng.EndDate) {
			continue
		}
		a.Revenue += floatv(ts.ExternalRevenue, 0)
		a.Expenses += floatv(ts.InternalCostUSD, ts.InternalCost)
	}
	for _, p := range in.Payroll {
		if inRange(p.Month+"-01", rng.StartDate, rng.EndDate) {
			a.Expenses += fx.ToUSDOrSame(p.NetAmount, p.Currency)
		}
	}
	a.Profit = a.Revenue - a.Expenses
	a.RevenueDelta = a.Revenue - cash.TotalInflows
	a.ExpenseDelta = a.Expenses - cash.TotalOutflows
	a.ProfitDelta = a.Profit - cash.NetCashChange
	return a
}

// transactionOutstanding is the aging-side rule: only records explicitly
// marked unpaid or partial are outstanding. Records without payment
// tracking follow the legacy default (revenue posted = paid, expenses =
// paid) and never age.
func transactionOutstanding(t Transaction) bool {
	return t.Status == "posted" && t.PaymentStatus != nil && *t.PaymentStatus != "paid"
}

func receivableItems(in Inputs) []AgingItem {
	items := []AgingItem{}
	for _, t := range in.Transactions {
		if t.Type != "revenue" || !transactionOutstanding(t) {
			continue
		}
		paid := floatv(t.TotalPaid, 0)
		items = append(items, AgingItem{
			ID:               t.ID,
			Description:      invoiceDescription(t),
			Date:             accrualDate(t),
			Amount:           t.Amount,
			Type:             "transaction",
			TotalPaid:        paid,
			RemainingBalance: t.Amount - paid,
			PaymentStatus:    strv(t.PaymentStatus),
		})
	}
	for _, ts := range in.Timesheets {
		if ts.Status != "approved" || strv(ts.InvoiceStatus) == "paid" {
			continue
		}
		amount := floatv(ts.ExternalRevenue, 0)
		paid := floatv(ts.CustomerAmountPaid, 0)
		items = append(items, AgingItem{
			ID:               ts.ID,
			Description:      fmt.Sprintf("Timesheet %s (%s)", ts.Month, ts.ContractorID),
			Date:             ts.Month + "-01",
			Amount:           amount,
			Type:             "timesheet",
			TotalPaid:        paid,
			RemainingBalance: amount - paid,
			PaymentStatus:    strv(ts.InvoiceStatus),
		})
	}
	return items
}

func payableItems(in Inputs, fx *rates.Cache) []AgingItem {
	items := []AgingItem{}
	for _, t := range in.Transactions {
		if t.Type != "expense" || !transactionOutstanding(t) {
			continue
		}
		paid := floatv(t.TotalPaid, 0)
		items = append(items, AgingItem{
			ID:               t.ID,
			Description:      invoiceDescription(t),
			Date:             accrualDate(t),
			Amount:           t.Amount,
			Type:             "transaction",
			TotalPaid:        paid,
			RemainingBalance: t.Amount - paid,
			PaymentStatus:    strv(t.PaymentStatus),
		})
	}
	// Contractor side has no partial-payment tracking: the full cost stays
	// outstanding until marked paid.
	for _, ts := range in.Timesheets {
		if ts.Status != "approved" || strv(ts.ContractorPaymentStatus) == "paid" {
			continue
		}
		cost := floatv(ts.InternalCostUSD, ts.InternalCost)
		items = append(items, AgingItem{
			ID:               ts.ID,
			Description:      fmt.Sprintf("Contractor pay %s (%s)", ts.Month, ts.ContractorID),
			Date:             ts.Month + "-01",
			Amount:           cost,
			Type:             "timesheet",
			RemainingBalance: cost,
			PaymentStatus:    strv(ts.ContractorPaymentStatus),
		})
	}
	for _, p := range in.Payroll {
		if p.Status != "pending" {
			continue
		}
		usd := fx.ToUSDOrSame(p.NetAmount, p.Currency)
		items = append(items, AgingItem{
			ID:               p.ID,
			Description:      fmt.Sprintf("Payroll %s (%s)", p.Month, p.TeamMemberName),
			Date:             p.Month + "-01",
			Amount:           usd,
			Type:             "transaction",
			RemainingBalance: usd,
			PaymentStatus:    p.Status,
		})
	}
	return items
}

func invoiceDescription(t Transaction) string {
	if t.InvoiceNumber != nil && *t.InvoiceNumber != "" {
		return fmt.Sprintf("Invoice %s (%s)", *t.InvoiceNumber, t.Category)
	}
	return t.Category
}

func computeMetrics(in Inputs, rng Range, d Data, now time.Time) Metrics {
	var m Metrics

	// Burn rate always trails 90 days behind "now", not the report end.
	trailingStart := now.AddDate(0, -3, 0).Format(constants.DateFormat)
	today := now.Format(constants.DateFormat)
	var trailingExpenses float64
	for _, t := range in.Transactions {
		if t.Status == "posted" && t.Type == "expense" && inRange(t.Date, trailingStart, today) {
			trailingExpenses += t.Amount
		}
	}
	m.MonthlyBurnRate = trailingExpenses / 3

	daysInRange := daysBetween(rng.StartDate, rng.EndDate) + 1
	if daysInRange < 1 {
		daysInRange = 1
	}
	avgDailyRevenue := d.Accrual.Revenue / daysInRange
	if avgDailyRevenue > 0 {
		m.DaysSalesOutstanding = math.Round(d.TotalAR / avgDailyRevenue)
	}

	if m.MonthlyBurnRate > 0 {
		m.CashRunway = math.Round(d.ClosingBalance/m.MonthlyBurnRate*10) / 10
	} else {
		m.CashRunway = config.InfiniteRunway
	}
	return m
}

// upcomingEvents projects expected collections (invoice + 30 days) for
// the first ten receivables and lists pending outflow obligations, both
// sorted by expected date. ISO strings sort lexicographically.
func upcomingEvents(in Inputs, arItems []AgingItem, fx *rates.Cache) ([]CashEvent, []CashEvent) {
	inflows := []CashEvent{}
	for i, it := range arItems {
		if i >= 10 {
			break
		}
		inflows = append(inflows, CashEvent{
			ID:          it.ID,
			Description: it.Description,
			Date:        addDays(it.Date, 30),
			Amount:      it.RemainingBalance,
			Source:      "receivable",
		})
	}

	outflows := []CashEvent{}
	count := 0
	for _, p := range in.Payroll {
		if p.Status != "pending" || count >= 5 {
			continue
		}
		outflows = append(outflows, CashEvent{
			ID:          p.ID,
			Description: fmt.Sprintf("Payroll %s (%s)", p.Month, p.TeamMemberName),
			Date:        monthEnd(p.Month),
			Amount:      fx.ToUSDOrSame(p.NetAmount, p.Currency),
			Source:      "payroll",
		})
		count++
	}
	count = 0
	for _, s := range in.Subscriptions {
		if s.Status != "active" || count >= 5 {
			continue
		}
		outflows = append(outflows, CashEvent{
			ID:          s.ID,
			Description: s.Vendor,
			Date:        s.NextBillingDate,
			Amount:      s.Cost,
			Source:      "subscription",
		})
		count++
	}
	count = 0
	for _, dist := range in.Distributions {
		if dist.Status != "pending" || count >= 5 {
			continue
		}
		outflows = append(outflows, CashEvent{
			ID:          dist.ID,
			Description: fmt.Sprintf("Distribution to %s", dist.PartnerName),
			Date:        dist.Date,
			Amount:      dist.Amount,
			Source:      "distribution",
		})
		count++
	}

	sort.SliceStable(inflows, func(i, j int) bool { return inflows[i].Date < inflows[j].Date })
	sort.SliceStable(outflows, func(i, j int) bool { return outflows[i].Date < outflows[j].Date })
	return inflows, outflows
}

func addDays(date string, n int) string {
	d, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, n).Format(constants.DateFormat)
}

// monthEnd returns the last calendar day of a YYYY-MM month, the natural
// payroll due date.
func monthEnd(month string) string {
	d, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return month + "-01"
	}
	return d.AddDate(0, 1, -1).Format(constants.DateFormat)
}

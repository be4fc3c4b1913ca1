package cashflow

// Payment-realization rules, one named predicate per record type. Kept as
// an explicit decision table because several carry backward-compatibility
// defaults for records created before payment tracking existed.

// revenueCashRealized: paid, or a legacy posted record with no payment
// tracking at all (those default to paid).
func revenueCashRealized(t Transaction) bool {
	if t.Type != "revenue" {
		return false
	}
	if t.PaymentStatus != nil {
		return *t.PaymentStatus == "paid"
	}
	return t.Status == "posted"
}

// expenseCashRealized: expenses are assumed paid immediately unless
// explicitly marked otherwise.
func expenseCashRealized(t Transaction) bool {
	if t.Type != "expense" {
		return false
	}
	if t.PaymentStatus != nil {
		return *t.PaymentStatus == "paid"
	}
	return true
}

// transactionCashDate: the payment event date, falling back to the
// transaction date for legacy records.
func transactionCashDate(t Transaction) string {
	if t.PaymentDate != nil && *t.PaymentDate != "" {
		return *t.PaymentDate
	}
	return t.Date
}

// timesheetReceiptRealized: the customer invoice is settled and we know
// when the money arrived.
func timesheetReceiptRealized(ts Timesheet) bool {
	return strv(ts.InvoiceStatus) == "paid" &&
		ts.CustomerPaymentDate != nil && *ts.CustomerPaymentDate != ""
}

// timesheetContractorPaid: the contractor side of the same timesheet has
// its own independent payment lifecycle.
func timesheetContractorPaid(ts Timesheet) bool {
	return strv(ts.ContractorPaymentStatus) == "paid" &&
		ts.ContractorPaymentDate != nil && *ts.ContractorPaymentDate != ""
}

func payrollPaid(p PayrollRecord) bool {
	return p.Status == "paid" && p.PaidDate != nil && *p.PaidDate != ""
}

func distributionCompleted(d Distribution) bool {
	return d.Status == "completed"
}

// inRange: inclusive window check on ISO date strings.
func inRange(date, start, end string) bool {
	return date != "" && date >= start && date <= end
}

func strv(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func floatv(p *float64, fallback float64) float64 {
	if p != nil {
		return *p
	}
	return fallback
}

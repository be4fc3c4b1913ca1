package cashflow

// Input records mirror the persisted collections owned by the CRUD
// services. The engine only ever reads them. All dates are ISO
// YYYY-MM-DD strings (months YYYY-MM); date ordering throughout this
// package is plain string comparison, which is correct for that format.

type Transaction struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Type          string   `json:"type"`   // revenue | expense
	Status        string   `json:"status"` // draft | posted
	Amount        float64  `json:"amount"`
	Category      string   `json:"category"`
	PaymentStatus *string  `json:"payment_status,omitempty"` // unpaid | partial | paid
	PaymentDate   *string  `json:"payment_date,omitempty"`
	AmountPaid    *float64 `json:"amount_paid,omitempty"`
	TotalPaid     *float64 `json:"total_paid,omitempty"`
	InvoiceDate   *string  `json:"invoice_date,omitempty"`
	InvoiceNumber *string  `json:"invoice_number,omitempty"`
}

type Timesheet struct {
	ID                      string   `json:"id"`
	Month                   string   `json:"month"` // YYYY-MM
	AssignmentID            string   `json:"assignment_id"`
	ContractorID            string   `json:"contractor_id"`
	CustomerID              string   `json:"customer_id"`
	Status                  string   `json:"status"` // draft | submitted | approved
	StandardDaysWorked      float64  `json:"standard_days_worked"`
	OvertimeDays            float64  `json:"overtime_days"`
	OvertimeHours           float64  `json:"overtime_hours"`
	TotalDaysWorked         float64  `json:"total_days_worked"`
	InternalDayRate         float64  `json:"internal_day_rate"`
	InternalCurrency        string   `json:"internal_currency"`
	InternalDayRateUSD      float64  `json:"internal_day_rate_usd"`
	ExternalDayRate         float64  `json:"external_day_rate"`
	ExternalCurrency        string   `json:"external_currency"`
	ExchangeRate            float64  `json:"exchange_rate"`
	InternalCost            float64  `json:"internal_cost"`
	InternalCostUSD         *float64 `json:"internal_cost_usd,omitempty"`
	ExternalRevenue         *float64 `json:"external_revenue,omitempty"`
	Profit                  float64  `json:"profit"`
	InvoiceStatus           *string  `json:"invoice_status,omitempty"` // not_invoiced | invoiced | paid | partial
	CustomerPaymentDate     *string  `json:"customer_payment_date,omitempty"`
	CustomerAmountPaid      *float64 `json:"customer_amount_paid,omitempty"`
	ContractorPaymentStatus *string  `json:"contractor_payment_status,omitempty"`
	ContractorPaymentDate   *string  `json:"contractor_payment_date,omitempty"`
}

type PayrollRecord struct {
	ID             string  `json:"id"`
	Month          string  `json:"month"` // YYYY-MM
	TeamMemberName string  `json:"team_member_name"`
	NetAmount      float64 `json:"net_amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"` // pending | paid
	PaidDate       *string `json:"paid_date,omitempty"`
}

type Distribution struct {
	ID          string  `json:"id"`
	PartnerID   string  `json:"partner_id"`
	PartnerName string  `json:"partner_name"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Status      string  `json:"status"` // pending | completed
}

type Subscription struct {
	ID              string  `json:"id"`
	Vendor          string  `json:"vendor"`
	Cost            float64 `json:"cost"`
	BillingCycle    string  `json:"billing_cycle"` // monthly | annual
	NextBillingDate string  `json:"next_billing_date"`
	Status          string  `json:"status"` // active | cancelled | paused
}

// Inputs bundles one consistent snapshot of every collection the engine
// consumes. Fetched by the snapshot layer, never mutated here.
type Inputs struct {
	Transactions  []Transaction
	Timesheets    []Timesheet
	Payroll       []PayrollRecord
	Distributions []Distribution
	Subscriptions []Subscription
}

// Range is the reporting window, inclusive on both ends.
type Range struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// AgingItem is one outstanding receivable or payable, derived per pass and
// never persisted.
type AgingItem struct {
	ID               string  `json:"id"`
	Description      string  `json:"description"`
	Date             string  `json:"date"` // effective invoice/reference date
	Amount           float64 `json:"amount"`
	DaysOutstanding  int     `json:"days_outstanding"`
	Type             string  `json:"type"` // transaction | timesheet
	TotalPaid        float64 `json:"total_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
	PaymentStatus    string  `json:"payment_status"`
}

// AgingBucket aggregates items for one fixed day range.
type AgingBucket struct {
	Label  string      `json:"label"`
	Amount float64     `json:"amount"`
	Count  int         `json:"count"`
	Items  []AgingItem `json:"items"`
}

// OperatingActivities holds the realized operating cash lines, USD.
type OperatingActivities struct {
	ReceiptsFromCustomers      float64 `json:"receipts_from_customers"`
	ContractorCustomerReceipts float64 `json:"contractor_customer_receipts"`
	ContractorPayments         float64 `json:"contractor_payments"`
	PayrollPayments            float64 `json:"payroll_payments"`
	SubscriptionPayments       float64 `json:"subscription_payments"`
	SubscriptionsEstimated     bool    `json:"subscriptions_estimated"`
	OtherOperatingPayments     float64 `json:"other_operating_payments"`
	NetOperating               float64 `json:"net_operating"`
}

// FinancingActivities currently carries only partner distributions.
type FinancingActivities struct {
	PartnerDistributions float64 `json:"partner_distributions"`
	NetFinancing         float64 `json:"net_financing"`
}

// AccrualComparison restates the period on invoice/accrual dates and
// reports the accrual-minus-cash deltas.
type AccrualComparison struct {
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	Profit       float64 `json:"profit"`
	RevenueDelta float64 `json:"revenue_delta"`
	ExpenseDelta float64 `json:"expense_delta"`
	ProfitDelta  float64 `json:"profit_delta"`
}

// Metrics are the headline health figures. Burn rate and runway use
// wall-clock "now", not the report range; DSO averages over the range.
// The asymmetry is inherited behavior and intentional.
type Metrics struct {
	MonthlyBurnRate      float64 `json:"monthly_burn_rate"`
	DaysSalesOutstanding float64 `json:"days_sales_outstanding"`
	CashRunway           float64 `json:"cash_runway"`
}

// CashEvent is one expected future inflow or outflow.
type CashEvent struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Source      string  `json:"source"` // receivable | payroll | subscription | distribution
}

// Data is the full computed snapshot. Ephemeral: recomputed on every
// input change, bit-identical for identical inputs.
type Data struct {
	Range          Range               `json:"range"`
	OpeningBalance float64             `json:"opening_balance"`
	Operating      OperatingActivities `json:"operating"`
	Financing      FinancingActivities `json:"financing"`
	TotalInflows   float64             `json:"total_inflows"`
	TotalOutflows  float64             `json:"total_outflows"`
	NetCashChange  float64             `json:"net_cash_change"`
	ClosingBalance float64             `json:"closing_balance"`
	Accrual        AccrualComparison   `json:"accrual"`
	ARAging        []AgingBucket       `json:"ar_aging"`
	APAging        []AgingBucket       `json:"ap_aging"`
	TotalAR        float64             `json:"total_ar"`
	TotalAP        float64             `json:"total_ap"`
	Metrics        Metrics             `json:"metrics"`
	UpcomingIn     []CashEvent         `json:"upcoming_inflows"`
	UpcomingOut    []CashEvent         `json:"upcoming_outflows"`
}

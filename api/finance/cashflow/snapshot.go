package cashflow

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadInputs materializes one consistent snapshot of every collection the
// engine consumes, scoped to the owning tenant. Rows that fail to scan
// are skipped rather than aborting the snapshot; the report must always
// render from whatever is readable.
func LoadInputs(ctx context.Context, pool *pgxpool.Pool, ownerID string) (Inputs, error) {
	var in Inputs

	txQ := `
		SELECT id, to_char(date, 'YYYY-MM-DD'), type, status, amount, category,
		       payment_status, to_char(payment_date, 'YYYY-MM-DD'),
		       amount_paid, total_paid,
		       to_char(invoice_date, 'YYYY-MM-DD'), invoice_number
		FROM transactions
		WHERE owner_id = $1
		ORDER BY date, id`
	rows, err := pool.Query(ctx, txQ, ownerID)
	if err != nil {
		return in, fmt.Errorf("load transactions: %w", err)
	}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Type, &t.Status, &t.Amount, &t.Category,
			&t.PaymentStatus, &t.PaymentDate, &t.AmountPaid, &t.TotalPaid,
			&t.InvoiceDate, &t.InvoiceNumber); err != nil {
			continue
		}
		in.Transactions = append(in.Transactions, t)
	}
	rows.Close()

	tsQ := `
		SELECT id, month, assignment_id, contractor_id, customer_id, status,
		       standard_days_worked, overtime_days, overtime_hours, total_days_worked,
		       internal_day_rate, internal_currency, internal_day_rate_usd,
		       external_day_rate, external_currency, exchange_rate,
		       internal_cost, internal_cost_usd, external_revenue, profit,
		       invoice_status, to_char(customer_payment_date, 'YYYY-MM-DD'), customer_amount_paid,
		       contractor_payment_status, to_char(contractor_payment_date, 'YYYY-MM-DD')
		FROM contractor_timesheets
		WHERE owner_id = $1
		ORDER BY month, id`
	rows, err = pool.Query(ctx, tsQ, ownerID)
	if err != nil {
		return in, fmt.Errorf("load timesheets: %w", err)
	}
	for rows.Next() {
		var ts Timesheet
		if err := rows.Scan(&ts.ID, &ts.Month, &ts.AssignmentID, &ts.ContractorID, &ts.CustomerID, &ts.Status,
			&ts.StandardDaysWorked, &ts.OvertimeDays, &ts.OvertimeHours, &ts.TotalDaysWorked,
			&ts.InternalDayRate, &ts.InternalCurrency, &ts.InternalDayRateUSD,
			&ts.ExternalDayRate, &ts.ExternalCurrency, &ts.ExchangeRate,
			&ts.InternalCost, &ts.InternalCostUSD, &ts.ExternalRevenue, &ts.Profit,
			&ts.InvoiceStatus, &ts.CustomerPaymentDate, &ts.CustomerAmountPaid,
			&ts.ContractorPaymentStatus, &ts.ContractorPaymentDate); err != nil {
			continue
		}
		in.Timesheets = append(in.Timesheets, ts)
	}
	rows.Close()

	payQ := `
		SELECT id, month, team_member_name, net_amount, currency, status,
		       to_char(paid_date, 'YYYY-MM-DD')
		FROM payroll_records
		WHERE owner_id = $1
		ORDER BY month, id`
	rows, err = pool.Query(ctx, payQ, ownerID)
	if err != nil {
		return in, fmt.Errorf("load payroll: %w", err)
	}
	for rows.Next() {
		var p PayrollRecord
		if err := rows.Scan(&p.ID, &p.Month, &p.TeamMemberName, &p.NetAmount, &p.Currency,
			&p.Status, &p.PaidDate); err != nil {
			continue
		}
		in.Payroll = append(in.Payroll, p)
	}
	rows.Close()

	distQ := `
		SELECT id, partner_id, partner_name, amount, to_char(date, 'YYYY-MM-DD'), status
		FROM distributions
		WHERE owner_id = $1
		ORDER BY date, id`
	rows, err = pool.Query(ctx, distQ, ownerID)
	if err != nil {
		return in, fmt.Errorf("load distributions: %w", err)
	}
	for rows.Next() {
		var dist Distribution
		if err := rows.Scan(&dist.ID, &dist.PartnerID, &dist.PartnerName, &dist.Amount,
			&dist.Date, &dist.Status); err != nil {
			continue
		}
		in.Distributions = append(in.Distributions, dist)
	}
	rows.Close()

	subQ := `
		SELECT id, vendor, cost, billing_cycle, to_char(next_billing_date, 'YYYY-MM-DD'), status
		FROM subscriptions
		WHERE owner_id = $1
		ORDER BY vendor, id`
	rows, err = pool.Query(ctx, subQ, ownerID)
	if err != nil {
		return in, fmt.Errorf("load subscriptions: %w", err)
	}
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.ID, &s.Vendor, &s.Cost, &s.BillingCycle,
			&s.NextBillingDate, &s.Status); err != nil {
			continue
		}
		in.Subscriptions = append(in.Subscriptions, s)
	}
	rows.Close()

	return in, nil
}

// LoadOpeningBalance reads the configured opening balance for a tenant.
// Missing configuration means zero, not an error.
func LoadOpeningBalance(ctx context.Context, pool *pgxpool.Pool, ownerID string) float64 {
	var balance float64
	err := pool.QueryRow(ctx,
		`SELECT COALESCE(opening_balance, 0) FROM org_settings WHERE owner_id = $1`,
		ownerID).Scan(&balance)
	if err != nil {
		return 0
	}
	return balance
}

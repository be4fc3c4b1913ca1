package contractors

import (
	"context"
	"encoding/json"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler: POST /contractors/timesheets/create
// Derived fields are computed here once and stored: total days from the
// standard/overtime split (overtime hours at 8 per day), costs from the
// assignment's frozen USD rate, profit as revenue minus USD cost.
func CreateTimesheetHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID             string  `json:"user_id"`
		AssignmentID       string  `json:"assignment_id"`
		Month              string  `json:"month"`
		StandardDaysWorked float64 `json:"standard_days_worked"`
		OvertimeDays       float64 `json:"overtime_days"`
		OvertimeHours      float64 `json:"overtime_hours"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithResult(w, false, constants.ErrMissingUserID)
			return
		}
		if req.AssignmentID == "" || req.Month == "" {
			api.RespondWithResult(w, false, "assignment_id and month required")
			return
		}
		if req.StandardDaysWorked < 0 || req.OvertimeDays < 0 || req.OvertimeHours < 0 {
			api.RespondWithResult(w, false, "worked time cannot be negative")
			return
		}

		ctx := context.Background()
		var contractorID, customerID, internalCurrency string
		var internalRate, internalRateUSD, externalRate, exchangeRate float64
		err := pool.QueryRow(ctx, `
			SELECT contractor_id, customer_id, internal_day_rate, internal_currency,
			       internal_day_rate_usd, external_day_rate, exchange_rate
			FROM contractor_assignments
			WHERE id = $1 AND owner_id = $2 AND status = 'active'`,
			req.AssignmentID, req.UserID).Scan(&contractorID, &customerID, &internalRate,
			&internalCurrency, &internalRateUSD, &externalRate, &exchangeRate)
		if err != nil {
			api.RespondWithResult(w, false, "active assignment not found")
			return
		}

		totalDays := req.StandardDaysWorked + req.OvertimeDays + req.OvertimeHours/8
		internalCost := internalRate * totalDays
		internalCostUSD := internalRateUSD * totalDays
		externalRevenue := externalRate * totalDays
		profit := externalRevenue - internalCostUSD

		id := uuid.New().String()
		_, err = pool.Exec(ctx, `
			INSERT INTO contractor_timesheets
				(id, owner_id, assignment_id, contractor_id, customer_id, month,
				 standard_days_worked, overtime_days, overtime_hours, total_days_worked,
				 internal_day_rate, internal_currency, internal_day_rate_usd,
				 external_day_rate, external_currency, exchange_rate,
				 internal_cost, internal_cost_usd, external_revenue, profit,
				 status, invoice_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			        'USD', $15, $16, $17, $18, $19, 'draft', 'not_invoiced')`,
			id, req.UserID, req.AssignmentID, contractorID, customerID, req.Month,
			req.StandardDaysWorked, req.OvertimeDays, req.OvertimeHours, totalDays,
			internalRate, internalCurrency, internalRateUSD, externalRate, exchangeRate,
			internalCost, internalCostUSD, externalRevenue, profit)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"id":                id,
			"total_days_worked": totalDays,
			"internal_cost_usd": internalCostUSD,
			"external_revenue":  externalRevenue,
			"profit":            profit,
		})
	}
}

// Handler: POST /contractors/timesheets/set-status
// Timesheets move draft -> submitted -> approved; only approved sheets
// enter the aging and cash views.
func SetTimesheetStatusHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID      string `json:"user_id"`
		TimesheetID string `json:"timesheet_id"`
		Status      string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.TimesheetID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Status != "draft" && req.Status != "submitted" && req.Status != "approved" {
			api.RespondWithResult(w, false, "status must be draft, submitted or approved")
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE contractor_timesheets SET status = $1 WHERE id = $2 AND owner_id = $3`,
			req.Status, req.TimesheetID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "timesheet not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /contractors/timesheets/record-customer-payment
// Accumulates customer payments against the sheet's external revenue and
// flips invoice_status to partial or paid.
func RecordCustomerPaymentHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID      string  `json:"user_id"`
		TimesheetID string  `json:"timesheet_id"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.TimesheetID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Amount <= 0 || req.Date == "" {
			api.RespondWithResult(w, false, "payment amount and date required")
			return
		}

		ctx := context.Background()
		var externalRevenue, paid float64
		err := pool.QueryRow(ctx, `
			SELECT COALESCE(external_revenue, 0), COALESCE(customer_amount_paid, 0)
			FROM contractor_timesheets
			WHERE id = $1 AND owner_id = $2 AND status = 'approved'`,
			req.TimesheetID, req.UserID).Scan(&externalRevenue, &paid)
		if err != nil {
			api.RespondWithResult(w, false, "approved timesheet not found")
			return
		}
		newPaid := paid + req.Amount
		invoiceStatus := "partial"
		if newPaid >= externalRevenue {
			invoiceStatus = "paid"
		}
		_, err = pool.Exec(ctx, `
			UPDATE contractor_timesheets
			SET invoice_status = $1, customer_payment_date = $2, customer_amount_paid = $3
			WHERE id = $4 AND owner_id = $5`,
			invoiceStatus, req.Date, newPaid, req.TimesheetID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"invoice_status":       invoiceStatus,
			"customer_amount_paid": newPaid,
		})
	}
}

// Handler: POST /contractors/timesheets/mark-contractor-paid
// Contractor payouts have no partial tracking: the full cost is either
// outstanding or settled.
func MarkContractorPaidHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID      string `json:"user_id"`
		TimesheetID string `json:"timesheet_id"`
		Date        string `json:"date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.TimesheetID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Date == "" {
			api.RespondWithResult(w, false, "payment date required")
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE contractor_timesheets
			SET contractor_payment_status = 'paid', contractor_payment_date = $1
			WHERE id = $2 AND owner_id = $3 AND status = 'approved'`,
			req.Date, req.TimesheetID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "approved timesheet not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /contractors/timesheets/all
func ListTimesheetsHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
		Month  string `json:"month,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithResult(w, false, constants.ErrMissingUserID)
			return
		}
		q := `
			SELECT id, assignment_id, contractor_id, customer_id, month,
			       total_days_worked, internal_cost_usd, external_revenue, profit,
			       status, invoice_status, customer_amount_paid, contractor_payment_status
			FROM contractor_timesheets WHERE owner_id = $1`
		args := []interface{}{req.UserID}
		if req.Month != "" {
			q += ` AND month = $2`
			args = append(args, req.Month)
		}
		q += ` ORDER BY month DESC, id`

		rows, err := pool.Query(context.Background(), q, args...)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, assignmentID, contractorID, customerID, month, status string
			var invoiceStatus, contractorPaymentStatus *string
			var totalDays, internalCostUSD, externalRevenue, profit float64
			var customerAmountPaid *float64
			if err := rows.Scan(&id, &assignmentID, &contractorID, &customerID, &month,
				&totalDays, &internalCostUSD, &externalRevenue, &profit,
				&status, &invoiceStatus, &customerAmountPaid, &contractorPaymentStatus); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id":                        id,
				"assignment_id":             assignmentID,
				"contractor_id":             contractorID,
				"customer_id":               customerID,
				"month":                     month,
				"total_days_worked":         totalDays,
				"internal_cost_usd":         internalCostUSD,
				"external_revenue":          externalRevenue,
				"profit":                    profit,
				"status":                    status,
				"invoice_status":            invoiceStatus,
				"customer_amount_paid":      customerAmountPaid,
				"contractor_payment_status": contractorPaymentStatus,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

package payroll

import (
	"context"
	"encoding/json"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"
	"OpsLedger/api/fx/rates"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler: POST /finance/payroll/create
// Net amounts stay in their entry currency; the engine converts to USD
// at read time with the live table, unlike timesheet rates which freeze.
func CreatePayrollHandler(pool *pgxpool.Pool, fx *rates.Cache) http.HandlerFunc {
	type reqBody struct {
		UserID         string  `json:"user_id"`
		Month          string  `json:"month"`
		TeamMemberName string  `json:"team_member_name"`
		NetAmount      float64 `json:"net_amount"`
		Currency       string  `json:"currency"`
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
		if req.Month == "" || req.TeamMemberName == "" {
			api.RespondWithResult(w, false, "month and team_member_name required")
			return
		}
		if req.NetAmount <= 0 {
			api.RespondWithResult(w, false, "net_amount must be positive")
			return
		}
		if req.Currency == "" {
			req.Currency = "USD"
		}
		if !rates.IsSupported(req.Currency) {
			api.RespondWithResult(w, false, "unsupported currency: "+req.Currency)
			return
		}
		id := uuid.New().String()
		_, err := pool.Exec(context.Background(), `
			INSERT INTO payroll_records (id, owner_id, month, team_member_name, net_amount, currency, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending')`,
			id, req.UserID, req.Month, req.TeamMemberName, req.NetAmount, req.Currency)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"id":             id,
			"net_amount_usd": fx.ToUSDOrSame(req.NetAmount, req.Currency),
		})
	}
}

// Handler: POST /finance/payroll/mark-paid
func MarkPayrollPaidHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID   string `json:"user_id"`
		RecordID string `json:"record_id"`
		PaidDate string `json:"paid_date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.RecordID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.PaidDate == "" {
			api.RespondWithResult(w, false, "paid_date required")
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE payroll_records SET status = 'paid', paid_date = $1
			WHERE id = $2 AND owner_id = $3 AND status = 'pending'`,
			req.PaidDate, req.RecordID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "pending payroll record not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /finance/payroll/all
func ListPayrollHandler(pool *pgxpool.Pool) http.HandlerFunc {
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
			SELECT id, month, team_member_name, net_amount, currency, status,
			       to_char(paid_date, 'YYYY-MM-DD')
			FROM payroll_records WHERE owner_id = $1`
		args := []interface{}{req.UserID}
		if req.Month != "" {
			q += ` AND month = $2`
			args = append(args, req.Month)
		}
		q += ` ORDER BY month DESC, team_member_name, id`

		rows, err := pool.Query(context.Background(), q, args...)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, month, name, currency, status string
			var netAmount float64
			var paidDate *string
			if err := rows.Scan(&id, &month, &name, &netAmount, &currency, &status, &paidDate); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id": id, "month": month, "team_member_name": name,
				"net_amount": netAmount, "currency": currency,
				"status": status, "paid_date": paidDate,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

package contractors

import (
	"context"
	"encoding/json"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"
	"OpsLedger/api/contractors/margin"
	"OpsLedger/api/fx/rates"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler: POST /contractors/assignments/create
// The internal day rate is converted to USD with the live rate table and
// stored on the row. That stored value is authoritative from then on:
// later rate refreshes never touch existing assignments.
func CreateAssignmentHandler(pool *pgxpool.Pool, fx *rates.Cache) http.HandlerFunc {
	type reqBody struct {
		UserID           string  `json:"user_id"`
		ContractorID     string  `json:"contractor_id"`
		CustomerID       string  `json:"customer_id"`
		InternalDayRate  float64 `json:"internal_day_rate"`
		InternalCurrency string  `json:"internal_currency"`
		ExternalDayRate  float64 `json:"external_day_rate"`
		StartDate        string  `json:"start_date"`
		EndDate          *string `json:"end_date,omitempty"`
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
		if req.ContractorID == "" || req.CustomerID == "" || req.StartDate == "" {
			api.RespondWithResult(w, false, "contractor_id, customer_id and start_date required")
			return
		}
		if req.InternalDayRate <= 0 || req.ExternalDayRate <= 0 {
			api.RespondWithResult(w, false, "day rates must be positive")
			return
		}
		res, err := margin.Compute(req.InternalDayRate, req.InternalCurrency, req.ExternalDayRate, fx)
		if err != nil {
			api.RespondWithResult(w, false, err.Error())
			return
		}
		exchangeRate := 1.0
		if res.InternalRateUSD > 0 {
			exchangeRate = req.InternalDayRate / res.InternalRateUSD
		}
		id := uuid.New().String()
		_, err = pool.Exec(context.Background(), `
			INSERT INTO contractor_assignments
				(id, owner_id, contractor_id, customer_id, internal_day_rate, internal_currency,
				 internal_day_rate_usd, external_day_rate, external_currency, exchange_rate,
				 start_date, end_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'USD', $9, $10, $11, 'active')`,
			id, req.UserID, req.ContractorID, req.CustomerID, req.InternalDayRate,
			req.InternalCurrency, res.InternalRateUSD, req.ExternalDayRate, exchangeRate,
			req.StartDate, req.EndDate)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"id":                    id,
			"internal_day_rate_usd": res.InternalRateUSD,
			"margin_usd":            res.MarginUSD,
			"margin_percent":        res.MarginPercent,
		})
	}
}

// Handler: POST /contractors/assignments/set-status
func SetAssignmentStatusHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID       string  `json:"user_id"`
		AssignmentID string  `json:"assignment_id"`
		Status       string  `json:"status"`
		EndDate      *string `json:"end_date,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.AssignmentID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Status != "active" && req.Status != "completed" && req.Status != "cancelled" {
			api.RespondWithResult(w, false, "status must be active, completed or cancelled")
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE contractor_assignments
			SET status = $1, end_date = COALESCE($2, end_date)
			WHERE id = $3 AND owner_id = $4`,
			req.Status, req.EndDate, req.AssignmentID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "assignment not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /contractors/assignments/all
// Margin figures come from the frozen internal_day_rate_usd on each row,
// never from the live table.
func ListAssignmentsHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
		Status string `json:"status,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithResult(w, false, constants.ErrMissingUserID)
			return
		}
		q := `
			SELECT id, contractor_id, customer_id, internal_day_rate, internal_currency,
			       internal_day_rate_usd, external_day_rate, exchange_rate,
			       to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status
			FROM contractor_assignments WHERE owner_id = $1`
		args := []interface{}{req.UserID}
		if req.Status != "" {
			q += ` AND status = $2`
			args = append(args, req.Status)
		}
		q += ` ORDER BY start_date DESC, id`

		rows, err := pool.Query(context.Background(), q, args...)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, contractorID, customerID, internalCurrency, startDate, status string
			var endDate *string
			var internalRate, internalRateUSD, externalRate, exchangeRate float64
			if err := rows.Scan(&id, &contractorID, &customerID, &internalRate, &internalCurrency,
				&internalRateUSD, &externalRate, &exchangeRate, &startDate, &endDate, &status); err != nil {
				continue
			}
			res := margin.FromFrozen(internalRateUSD, externalRate)
			out = append(out, map[string]interface{}{
				"id":                    id,
				"contractor_id":         contractorID,
				"customer_id":           customerID,
				"internal_day_rate":     internalRate,
				"internal_currency":     internalCurrency,
				"internal_day_rate_usd": internalRateUSD,
				"external_day_rate":     externalRate,
				"external_currency":     "USD",
				"exchange_rate":         exchangeRate,
				"start_date":            startDate,
				"end_date":              endDate,
				"status":                status,
				"margin_usd":            res.MarginUSD,
				"margin_percent":        res.MarginPercent,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

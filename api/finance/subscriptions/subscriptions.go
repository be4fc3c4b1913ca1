package subscriptions

import (
	"context"
	"encoding/json"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler: POST /finance/subscriptions/create
func CreateSubscriptionHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID          string  `json:"user_id"`
		Vendor          string  `json:"vendor"`
		Cost            float64 `json:"cost"`
		BillingCycle    string  `json:"billing_cycle"`
		NextBillingDate string  `json:"next_billing_date"`
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
		if req.BillingCycle != "monthly" && req.BillingCycle != "annual" {
			api.RespondWithResult(w, false, "billing_cycle must be monthly or annual")
			return
		}
		id := uuid.New().String()
		_, err := pool.Exec(context.Background(), `
			INSERT INTO subscriptions (id, owner_id, vendor, cost, billing_cycle, next_billing_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'active')`,
			id, req.UserID, req.Vendor, req.Cost, req.BillingCycle, req.NextBillingDate)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]string{"id": id})
	}
}

// Handler: POST /finance/subscriptions/set-status
// Moves a subscription between active, paused and cancelled.
func SetSubscriptionStatusHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID         string `json:"user_id"`
		SubscriptionID string `json:"subscription_id"`
		Status         string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.SubscriptionID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		switch req.Status {
		case "active", "paused", "cancelled":
		default:
			api.RespondWithResult(w, false, "status must be active, paused or cancelled")
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE subscriptions SET status = $1 WHERE id = $2 AND owner_id = $3`,
			req.Status, req.SubscriptionID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "subscription not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /finance/subscriptions/all
func ListSubscriptionsHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithResult(w, false, constants.ErrMissingUserID)
			return
		}
		rows, err := pool.Query(context.Background(), `
			SELECT id, vendor, cost, billing_cycle, to_char(next_billing_date, 'YYYY-MM-DD'), status
			FROM subscriptions WHERE owner_id = $1 ORDER BY vendor`, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, vendor, cycle, next, status string
			var cost float64
			if err := rows.Scan(&id, &vendor, &cost, &cycle, &next, &status); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id": id, "vendor": vendor, "cost": cost,
				"billing_cycle": cycle, "next_billing_date": next, "status": status,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

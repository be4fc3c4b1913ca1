package cashflow

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"OpsLedger/api"
	"OpsLedger/api/constants"
	"OpsLedger/api/fx/rates"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler: POST /finance/cashflow/statement
// Body: {"user_id":"...", "start_date":"YYYY-MM-DD", "end_date":"YYYY-MM-DD",
//        "opening_balance": 12345.67 (optional, defaults to org settings)}
func GetStatementHandler(pool *pgxpool.Pool, fx *rates.Cache) http.HandlerFunc {
	type reqBody struct {
		UserID         string   `json:"user_id"`
		StartDate      string   `json:"start_date"`
		EndDate        string   `json:"end_date"`
		OpeningBalance *float64 `json:"opening_balance,omitempty"`
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
		if req.StartDate == "" || req.EndDate == "" {
			api.RespondWithResult(w, false, "start_date and end_date required")
			return
		}

		ctx := context.Background()
		in, err := LoadInputs(ctx, pool, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		opening := LoadOpeningBalance(ctx, pool, req.UserID)
		if req.OpeningBalance != nil {
			opening = *req.OpeningBalance
		}

		data := Compute(in, Range{StartDate: req.StartDate, EndDate: req.EndDate},
			opening, time.Now().UTC(), fx)

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{constants.ValueSuccess: true, "statement": data})
	}
}

// Handler: POST /finance/cashflow/aging
// Returns just the AR/AP aging view, for the receivables screen.
func GetAgingHandler(pool *pgxpool.Pool, fx *rates.Cache) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
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

		in, err := LoadInputs(context.Background(), pool, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		now := time.Now().UTC()
		ar := receivableItems(in)
		ap := payableItems(in, fx)
		var totalAR, totalAP float64
		for _, it := range ar {
			totalAR += it.RemainingBalance
		}
		for _, it := range ap {
			totalAP += it.RemainingBalance
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"ar_aging":             BucketAging(ar, now),
			"ap_aging":             BucketAging(ap, now),
			"total_ar":             totalAR,
			"total_ap":             totalAP,
		})
	}
}

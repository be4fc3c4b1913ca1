package contractors

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"OpsLedger/api"
	"OpsLedger/api/constants"
	"OpsLedger/api/contractors/forecast"
	"OpsLedger/api/contractors/margin"
	"OpsLedger/api/fx/rates"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartContractorService serves assignment, timesheet, margin preview and
// forecast endpoints on :4143.
func StartContractorService(pool *pgxpool.Pool, fx *rates.Cache) {
	mux := http.NewServeMux()
	mux.HandleFunc("/contractors/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Contractor Service is active"))
	})

	mux.HandleFunc("/contractors/assignments/create", CreateAssignmentHandler(pool, fx))
	mux.HandleFunc("/contractors/assignments/set-status", SetAssignmentStatusHandler(pool))
	mux.HandleFunc("/contractors/assignments/all", ListAssignmentsHandler(pool))

	mux.HandleFunc("/contractors/timesheets/create", CreateTimesheetHandler(pool))
	mux.HandleFunc("/contractors/timesheets/set-status", SetTimesheetStatusHandler(pool))
	mux.HandleFunc("/contractors/timesheets/record-customer-payment", RecordCustomerPaymentHandler(pool))
	mux.HandleFunc("/contractors/timesheets/mark-contractor-paid", MarkContractorPaidHandler(pool))
	mux.HandleFunc("/contractors/timesheets/all", ListTimesheetsHandler(pool))

	mux.HandleFunc("/contractors/margin/preview", MarginPreviewHandler(fx))
	mux.HandleFunc("/contractors/forecast", ForecastHandler(pool))

	log.Println("Contractor Service started on :4143")
	if err := http.ListenAndServe(":4143", mux); err != nil {
		log.Fatalf("Contractor Service failed: %v", err)
	}
}

// Handler: POST /contractors/margin/preview
// Live preview for uncommitted form values; uses the current rate table,
// unlike persisted rows which keep their frozen rate.
func MarginPreviewHandler(fx *rates.Cache) http.HandlerFunc {
	type reqBody struct {
		UserID           string  `json:"user_id"`
		InternalRate     float64 `json:"internal_rate"`
		InternalCurrency string  `json:"internal_currency"`
		ExternalRateUSD  float64 `json:"external_rate_usd"`
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
		res, err := margin.Compute(req.InternalRate, req.InternalCurrency, req.ExternalRateUSD, fx)
		if err != nil {
			api.RespondWithResult(w, false, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", res)
	}
}

// Handler: POST /contractors/forecast
func ForecastHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
		Months int    `json:"months"`
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
		if req.Months <= 0 {
			req.Months = 6
		}
		rows, err := pool.Query(context.Background(), `
			SELECT id, contractor_id, customer_id, internal_day_rate_usd, external_day_rate,
			       to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status
			FROM contractor_assignments
			WHERE owner_id = $1 AND status = 'active'`, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		assignments := make([]forecast.Assignment, 0)
		for rows.Next() {
			var a forecast.Assignment
			if err := rows.Scan(&a.ID, &a.ContractorID, &a.CustomerID, &a.InternalDayRateUSD,
				&a.ExternalDayRate, &a.StartDate, &a.EndDate, &a.Status); err != nil {
				continue
			}
			assignments = append(assignments, a)
		}
		api.RespondWithPayload(w, true, "", forecast.Project(assignments, req.Months, time.Now()))
	}
}

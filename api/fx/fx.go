package fx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"
	"OpsLedger/api/fx/rates"
)

// StartFXService serves the currency rate table and conversions on :3143.
func StartFXService(cache *rates.Cache) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fx/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("FX Service is active"))
	})

	mux.HandleFunc("/fx/rates", GetRatesHandler(cache))
	mux.HandleFunc("/fx/rates/refresh", RefreshRatesHandler(cache))
	mux.HandleFunc("/fx/convert", ConvertHandler(cache))

	log.Println("FX Service started on :3143")
	if err := http.ListenAndServe(":3143", mux); err != nil {
		log.Fatalf("FX Service failed: %v", err)
	}
}

// Handler: POST /fx/rates
func GetRatesHandler(cache *rates.Cache) http.HandlerFunc {
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
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"rates_per_usd": cache.Snapshot(),
			"refreshed_at":  cache.RefreshedAt(),
		})
	}
}

// Handler: POST /fx/rates/refresh
// Pulls the external table on demand; the nightly job does the same.
func RefreshRatesHandler(cache *rates.Cache) http.HandlerFunc {
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
		if err := cache.Refresh(context.Background()); err != nil {
			api.RespondWithResult(w, false, "rate refresh failed: "+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"rates_per_usd": cache.Snapshot(),
			"refreshed_at":  cache.RefreshedAt(),
		})
	}
}

// Handler: POST /fx/convert
func ConvertHandler(cache *rates.Cache) http.HandlerFunc {
	type reqBody struct {
		UserID   string  `json:"user_id"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
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
		usd, err := cache.ToUSD(req.Amount, req.Currency)
		if err != nil {
			api.RespondWithResult(w, false, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"amount":     req.Amount,
			"currency":   req.Currency,
			"amount_usd": usd,
		})
	}
}

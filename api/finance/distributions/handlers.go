package distributions

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"OpsLedger/api"
	"OpsLedger/api/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Handler: POST /finance/distributions/run
// Splits a profit amount across the active partners and inserts one
// pending distribution row per partner.
func RunDistributionHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
		Amount string `json:"amount"`
		Date   string `json:"date"`
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
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			api.RespondWithResult(w, false, "amount must be a positive number")
			return
		}
		if req.Date == "" {
			req.Date = time.Now().UTC().Format(constants.DateFormat)
		}

		ctx := context.Background()
		partners, err := loadPartners(ctx, pool, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		shares, err := Split(amount, partners)
		if err != nil {
			api.RespondWithResult(w, false, err.Error())
			return
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)

		created := make([]map[string]interface{}, 0, len(shares))
		for _, s := range shares {
			id := uuid.New().String()
			_, err := tx.Exec(ctx, `
				INSERT INTO distributions (id, owner_id, partner_id, partner_name, amount, date, status)
				VALUES ($1, $2, $3, $4, $5, $6, 'pending')`,
				id, req.UserID, s.PartnerID, s.PartnerName, s.Amount, req.Date)
			if err != nil {
				api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
				return
			}
			created = append(created, map[string]interface{}{
				"id":           id,
				"partner_id":   s.PartnerID,
				"partner_name": s.PartnerName,
				"amount":       s.Amount,
				"date":         req.Date,
				"status":       "pending",
			})
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithResult(w, false, constants.ErrTxCommitFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", created)
	}
}

// Handler: POST /finance/distributions/complete
// Marks a pending distribution as completed with its payment date.
func CompleteDistributionHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID         string `json:"user_id"`
		DistributionID string `json:"distribution_id"`
		Date           string `json:"date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.DistributionID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Date == "" {
			req.Date = time.Now().UTC().Format(constants.DateFormat)
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE distributions SET status = 'completed', date = $1
			WHERE id = $2 AND owner_id = $3 AND status = 'pending'`,
			req.Date, req.DistributionID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "no pending distribution found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /finance/distributions/all
func ListDistributionsHandler(pool *pgxpool.Pool) http.HandlerFunc {
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
			SELECT id, partner_id, partner_name, amount, to_char(date, 'YYYY-MM-DD'), status
			FROM distributions WHERE owner_id = $1 ORDER BY date DESC, id`, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, partnerID, partnerName, date, status string
			var amount decimal.Decimal
			if err := rows.Scan(&id, &partnerID, &partnerName, &amount, &date, &status); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id": id, "partner_id": partnerID, "partner_name": partnerName,
				"amount": amount, "date": date, "status": status,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

func loadPartners(ctx context.Context, pool *pgxpool.Pool, ownerID string) ([]Partner, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, name, share_percentage, active
		FROM partners WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	partners := []Partner{}
	for rows.Next() {
		var p Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.SharePercentage, &p.Active); err != nil {
			continue
		}
		partners = append(partners, p)
	}
	return partners, nil
}

package transactions

import (
	"context"
	"encoding/json"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler: POST /finance/transactions/create
func CreateTransactionHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID        string  `json:"user_id"`
		Date          string  `json:"date"`
		Type          string  `json:"type"`
		Amount        float64 `json:"amount"`
		Category      string  `json:"category"`
		Status        string  `json:"status"`
		InvoiceDate   *string `json:"invoice_date,omitempty"`
		InvoiceNumber *string `json:"invoice_number,omitempty"`
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
		if req.Type != "revenue" && req.Type != "expense" {
			api.RespondWithResult(w, false, "type must be revenue or expense")
			return
		}
		if req.Amount <= 0 {
			api.RespondWithResult(w, false, "amount must be positive")
			return
		}
		if req.Status == "" {
			req.Status = "draft"
		}
		id := uuid.New().String()
		_, err := pool.Exec(context.Background(), `
			INSERT INTO transactions (id, owner_id, date, type, amount, category, status, invoice_date, invoice_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, req.UserID, req.Date, req.Type, req.Amount, req.Category, req.Status,
			req.InvoiceDate, req.InvoiceNumber)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]string{"id": id})
	}
}

// Handler: POST /finance/transactions/record-payment
// Records a full or partial payment against a posted transaction. Payment
// history drives the cash statement and the aging report, so this is the
// only way payment fields change.
func RecordPaymentHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID        string  `json:"user_id"`
		TransactionID string  `json:"transaction_id"`
		Amount        float64 `json:"amount"`
		Date          string  `json:"date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.TransactionID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Amount <= 0 || req.Date == "" {
			api.RespondWithResult(w, false, "payment amount and date required")
			return
		}

		ctx := context.Background()
		var amount, totalPaid float64
		err := pool.QueryRow(ctx, `
			SELECT amount, COALESCE(total_paid, 0) FROM transactions
			WHERE id = $1 AND owner_id = $2 AND status = 'posted'`,
			req.TransactionID, req.UserID).Scan(&amount, &totalPaid)
		if err != nil {
			api.RespondWithResult(w, false, "posted transaction not found")
			return
		}
		newTotal := totalPaid + req.Amount
		status := "partial"
		if newTotal >= amount {
			status = "paid"
		}
		_, err = pool.Exec(ctx, `
			UPDATE transactions
			SET payment_status = $1, payment_date = $2, amount_paid = $3, total_paid = $4
			WHERE id = $5 AND owner_id = $6`,
			status, req.Date, req.Amount, newTotal, req.TransactionID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"payment_status": status,
			"total_paid":     newTotal,
		})
	}
}

// Handler: POST /finance/transactions/all
func ListTransactionsHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID    string `json:"user_id"`
		StartDate string `json:"start_date,omitempty"`
		EndDate   string `json:"end_date,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithResult(w, false, constants.ErrMissingUserID)
			return
		}
		q := `
			SELECT id, to_char(date, 'YYYY-MM-DD'), type, status, amount, category,
			       payment_status, to_char(payment_date, 'YYYY-MM-DD'), total_paid, invoice_number
			FROM transactions WHERE owner_id = $1`
		args := []interface{}{req.UserID}
		if req.StartDate != "" && req.EndDate != "" {
			q += ` AND date BETWEEN $2 AND $3`
			args = append(args, req.StartDate, req.EndDate)
		}
		q += ` ORDER BY date DESC, id`

		rows, err := pool.Query(context.Background(), q, args...)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, date, ttype, status, category string
			var amount float64
			var paymentStatus, paymentDate, invoiceNumber *string
			var totalPaid *float64
			if err := rows.Scan(&id, &date, &ttype, &status, &amount, &category,
				&paymentStatus, &paymentDate, &totalPaid, &invoiceNumber); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id": id, "date": date, "type": ttype, "status": status,
				"amount": amount, "category": category,
				"payment_status": paymentStatus, "payment_date": paymentDate,
				"total_paid": totalPaid, "invoice_number": invoiceNumber,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

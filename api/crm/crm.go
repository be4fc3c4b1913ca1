package crm

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"OpsLedger/api"
	"OpsLedger/api/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartCRMService serves the unified client view on :7143. A client row
// links the customer ids used by the contractor and finance modules so
// the one relationship shows up consistently across them.
func StartCRMService(pool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crm/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("CRM Service is active"))
	})

	mux.HandleFunc("/crm/clients/create", CreateClientHandler(pool))
	mux.HandleFunc("/crm/clients/update", UpdateClientHandler(pool))
	mux.HandleFunc("/crm/clients/all", ListClientsHandler(pool))

	log.Println("CRM Service started on :7143")
	if err := http.ListenAndServe(":7143", mux); err != nil {
		log.Fatalf("CRM Service failed: %v", err)
	}
}

// Handler: POST /crm/clients/create
func CreateClientHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID       string  `json:"user_id"`
		Name         string  `json:"name"`
		ContactName  *string `json:"contact_name,omitempty"`
		ContactEmail *string `json:"contact_email,omitempty"`
		Phone        *string `json:"phone,omitempty"`
		CustomerID   *string `json:"customer_id,omitempty"`
		Notes        *string `json:"notes,omitempty"`
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
		if req.Name == "" {
			api.RespondWithResult(w, false, "client name required")
			return
		}
		id := uuid.New().String()
		_, err := pool.Exec(context.Background(), `
			INSERT INTO crm_clients (id, owner_id, name, contact_name, contact_email, phone, customer_id, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')`,
			id, req.UserID, req.Name, req.ContactName, req.ContactEmail, req.Phone, req.CustomerID, req.Notes)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]string{"id": id})
	}
}

// Handler: POST /crm/clients/update
func UpdateClientHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID       string  `json:"user_id"`
		ClientID     string  `json:"client_id"`
		Name         *string `json:"name,omitempty"`
		ContactName  *string `json:"contact_name,omitempty"`
		ContactEmail *string `json:"contact_email,omitempty"`
		Phone        *string `json:"phone,omitempty"`
		Notes        *string `json:"notes,omitempty"`
		Status       *string `json:"status,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.ClientID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if req.Status != nil && *req.Status != "active" && *req.Status != "inactive" {
			api.RespondWithResult(w, false, "status must be active or inactive")
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE crm_clients
			SET name = COALESCE($1, name),
			    contact_name = COALESCE($2, contact_name),
			    contact_email = COALESCE($3, contact_email),
			    phone = COALESCE($4, phone),
			    notes = COALESCE($5, notes),
			    status = COALESCE($6, status)
			WHERE id = $7 AND owner_id = $8`,
			req.Name, req.ContactName, req.ContactEmail, req.Phone, req.Notes, req.Status,
			req.ClientID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "client not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /crm/clients/all
// Joins in assignment and revenue counts so the list view can show each
// relationship's footprint without extra round trips.
func ListClientsHandler(pool *pgxpool.Pool) http.HandlerFunc {
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
			SELECT c.id, c.name, c.contact_name, c.contact_email, c.phone, c.customer_id, c.notes, c.status,
			       COALESCE(a.cnt, 0)
			FROM crm_clients c
			LEFT JOIN (
				SELECT customer_id, COUNT(*) AS cnt
				FROM contractor_assignments
				WHERE owner_id = $1 AND status = 'active'
				GROUP BY customer_id
			) a ON a.customer_id = c.customer_id
			WHERE c.owner_id = $1
			ORDER BY c.name, c.id`, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, name, status string
			var contactName, contactEmail, phone, customerID, notes *string
			var activeAssignments int64
			if err := rows.Scan(&id, &name, &contactName, &contactEmail, &phone, &customerID,
				&notes, &status, &activeAssignments); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id":                 id,
				"name":               name,
				"contact_name":       contactName,
				"contact_email":      contactEmail,
				"phone":              phone,
				"customer_id":        customerID,
				"notes":              notes,
				"status":             status,
				"active_assignments": activeAssignments,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

package recruitment

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

var pipelineStages = map[string]bool{
	"applied":   true,
	"screening": true,
	"interview": true,
	"offer":     true,
	"hired":     true,
	"rejected":  true,
}

// StartRecruitmentService serves the candidate pipeline on :9143.
func StartRecruitmentService(pool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recruitment/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Recruitment Service is active"))
	})

	mux.HandleFunc("/recruitment/candidates/create", CreateCandidateHandler(pool))
	mux.HandleFunc("/recruitment/candidates/move-stage", MoveCandidateStageHandler(pool))
	mux.HandleFunc("/recruitment/candidates/all", ListCandidatesHandler(pool))

	log.Println("Recruitment Service started on :9143")
	if err := http.ListenAndServe(":9143", mux); err != nil {
		log.Fatalf("Recruitment Service failed: %v", err)
	}
}

// Handler: POST /recruitment/candidates/create
func CreateCandidateHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID   string  `json:"user_id"`
		Name     string  `json:"name"`
		Email    *string `json:"email,omitempty"`
		Phone    *string `json:"phone,omitempty"`
		Role     string  `json:"role"`
		Source   *string `json:"source,omitempty"`
		ClientID *string `json:"client_id,omitempty"`
		Notes    *string `json:"notes,omitempty"`
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
		if req.Name == "" || req.Role == "" {
			api.RespondWithResult(w, false, "candidate name and role required")
			return
		}
		id := uuid.New().String()
		_, err := pool.Exec(context.Background(), `
			INSERT INTO recruitment_candidates (id, owner_id, name, email, phone, role, source, client_id, notes, stage)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'applied')`,
			id, req.UserID, req.Name, req.Email, req.Phone, req.Role, req.Source, req.ClientID, req.Notes)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]string{"id": id, "stage": "applied"})
	}
}

// Handler: POST /recruitment/candidates/move-stage
func MoveCandidateStageHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID      string `json:"user_id"`
		CandidateID string `json:"candidate_id"`
		Stage       string `json:"stage"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.CandidateID == "" {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		if !pipelineStages[req.Stage] {
			api.RespondWithResult(w, false, "unknown pipeline stage: "+req.Stage)
			return
		}
		tag, err := pool.Exec(context.Background(), `
			UPDATE recruitment_candidates SET stage = $1, stage_updated_at = NOW()
			WHERE id = $2 AND owner_id = $3`,
			req.Stage, req.CandidateID, req.UserID)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrQueryFailed+err.Error())
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, "candidate not found")
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: POST /recruitment/candidates/all
func ListCandidatesHandler(pool *pgxpool.Pool) http.HandlerFunc {
	type reqBody struct {
		UserID string `json:"user_id"`
		Stage  string `json:"stage,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req reqBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithResult(w, false, constants.ErrMissingUserID)
			return
		}
		q := `
			SELECT id, name, email, phone, role, source, client_id, notes, stage
			FROM recruitment_candidates WHERE owner_id = $1`
		args := []interface{}{req.UserID}
		if req.Stage != "" {
			q += ` AND stage = $2`
			args = append(args, req.Stage)
		}
		q += ` ORDER BY name, id`

		rows, err := pool.Query(context.Background(), q, args...)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrDB+": "+err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, name, role, stage string
			var email, phone, source, clientID, notes *string
			if err := rows.Scan(&id, &name, &email, &phone, &role, &source, &clientID, &notes, &stage); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id": id, "name": name, "email": email, "phone": phone,
				"role": role, "source": source, "client_id": clientID,
				"notes": notes, "stage": stage,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

package user

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"OpsLedger/api/utils"

	"github.com/google/uuid"
)

// Helper: send JSON error response
func respondWithError(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

func respondWithRows(w http.ResponseWriter, rows interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"rows":    rows,
	})
}

// Handler: Create user
func CreateUser(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string `json:"user_id"`
			Email    string `json:"email"`
			Name     string `json:"name"`
			RoleCode string `json:"role_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.UserID == "" || req.Email == "" || req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "user_id, email and name are required")
			return
		}
		if req.RoleCode == "" {
			req.RoleCode = "member"
		}
		id := uuid.New().String()
		_, err := db.Exec(
			`INSERT INTO users (id, owner_id, email, name, role_code, status) VALUES ($1, $2, $3, $4, $5, 'active')`,
			id, req.UserID, req.Email, req.Name, req.RoleCode,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithRows(w, map[string]string{"id": id})
	}
}

// Handler: Get users for an owner, paginated via ?page=&limit=
func GetUsers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			respondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := utils.CountTotal(db, `SELECT COUNT(*) FROM users WHERE owner_id = $1`, req.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pagination.SetPaginationStats(total)

		rows, err := db.Query(
			`SELECT id, email, name, role_code, status FROM users WHERE owner_id = $1
			 ORDER BY name LIMIT $2 OFFSET $3`,
			req.UserID, pagination.Limit, pagination.Offset,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, email, name, roleCode, status string
			if err := rows.Scan(&id, &email, &name, &roleCode, &status); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"id": id, "email": email, "name": name,
				"role_code": roleCode, "status": status,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"rows":       out,
			"pagination": pagination,
		})
	}
}

// Handler: Update user name/role
func UpdateUser(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string  `json:"user_id"`
			ID       string  `json:"id"`
			Name     *string `json:"name,omitempty"`
			RoleCode *string `json:"role_code,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.ID == "" {
			respondWithError(w, http.StatusBadRequest, "user_id and id are required")
			return
		}
		res, err := db.Exec(
			`UPDATE users SET name = COALESCE($1, name), role_code = COALESCE($2, role_code)
			 WHERE id = $3 AND owner_id = $4`,
			req.Name, req.RoleCode, req.ID, req.UserID,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		respondWithRows(w, map[string]string{"id": req.ID})
	}
}

// Handler: Deactivate user (soft delete; rows never leave the table)
func DeactivateUser(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			ID     string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.ID == "" {
			respondWithError(w, http.StatusBadRequest, "user_id and id are required")
			return
		}
		res, err := db.Exec(
			`UPDATE users SET status = 'inactive' WHERE id = $1 AND owner_id = $2`,
			req.ID, req.UserID,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		respondWithRows(w, map[string]string{"id": req.ID})
	}
}

package role

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/lib/pq"
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

// Handler: Create role with its module access list
func CreateRole(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID      string   `json:"user_id"`
			Name        string   `json:"name"`
			RoleCode    string   `json:"role_code"`
			Description string   `json:"description"`
			Modules     []string `json:"modules"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.RoleCode == "" || req.UserID == "" {
			respondWithError(w, http.StatusBadRequest, "name, role_code and user_id are required")
			return
		}
		_, err := db.Exec(
			`INSERT INTO roles (owner_id, name, role_code, description, modules) VALUES ($1, $2, $3, $4, $5)`,
			req.UserID, req.Name, req.RoleCode, req.Description, pq.Array(req.Modules),
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithRows(w, map[string]string{"role_code": req.RoleCode})
	}
}

// Handler: Get roles for an owner
func GetRoles(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			respondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		rows, err := db.Query(
			`SELECT name, role_code, description, modules FROM roles WHERE owner_id = $1 ORDER BY role_code`,
			req.UserID,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()
		out := make([]map[string]interface{}, 0)
		for rows.Next() {
			var name, roleCode, description string
			var modules []string
			if err := rows.Scan(&name, &roleCode, &description, pq.Array(&modules)); err != nil {
				continue
			}
			out = append(out, map[string]interface{}{
				"name": name, "role_code": roleCode,
				"description": description, "modules": modules,
			})
		}
		respondWithRows(w, out)
	}
}

// Handler: Update a role's module access list
func UpdateRoleModules(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string   `json:"user_id"`
			RoleCode string   `json:"role_code"`
			Modules  []string `json:"modules"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.RoleCode == "" {
			respondWithError(w, http.StatusBadRequest, "user_id and role_code are required")
			return
		}
		res, err := db.Exec(
			`UPDATE roles SET modules = $1 WHERE role_code = $2 AND owner_id = $3`,
			pq.Array(req.Modules), req.RoleCode, req.UserID,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			respondWithError(w, http.StatusNotFound, "role not found")
			return
		}
		respondWithRows(w, map[string]string{"role_code": req.RoleCode})
	}
}

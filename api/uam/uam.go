package uam

import (
	"database/sql"
	"log"
	"net/http"

	"OpsLedger/api/uam/role"
	"OpsLedger/api/uam/user"
)

func StartUAMService(db *sql.DB) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uam/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("UAM Service is active"))
	})
	/*users*/
	mux.HandleFunc("/uam/users/create-user", user.CreateUser(db))
	mux.HandleFunc("/uam/users/get-users", user.GetUsers(db))
	mux.HandleFunc("/uam/users/update-user", user.UpdateUser(db))
	mux.HandleFunc("/uam/users/deactivate-user", user.DeactivateUser(db))
	/*roles*/
	mux.HandleFunc("/uam/roles/create-role", role.CreateRole(db))
	mux.HandleFunc("/uam/roles/get-roles", role.GetRoles(db))
	mux.HandleFunc("/uam/roles/update-modules", role.UpdateRoleModules(db))

	log.Println("UAM Service started on :5143")
	if err := http.ListenAndServe(":5143", mux); err != nil {
		log.Fatalf("UAM Service failed: %v", err)
	}
}

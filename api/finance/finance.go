package finance

import (
	"log"
	"net/http"

	"OpsLedger/api/finance/cashflow"
	"OpsLedger/api/finance/distributions"
	"OpsLedger/api/finance/payroll"
	"OpsLedger/api/finance/subscriptions"
	"OpsLedger/api/finance/transactions"
	"OpsLedger/api/fx/rates"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartFinanceService serves bookkeeping, the cash-flow statement and
// partner distributions on :6143.
func StartFinanceService(pool *pgxpool.Pool, fx *rates.Cache) {
	mux := http.NewServeMux()
	mux.HandleFunc("/finance/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Finance Service is active"))
	})

	mux.HandleFunc("/finance/cashflow/statement", cashflow.GetStatementHandler(pool, fx))
	mux.HandleFunc("/finance/cashflow/aging", cashflow.GetAgingHandler(pool, fx))

	mux.HandleFunc("/finance/transactions/create", transactions.CreateTransactionHandler(pool))
	mux.HandleFunc("/finance/transactions/record-payment", transactions.RecordPaymentHandler(pool))
	mux.HandleFunc("/finance/transactions/all", transactions.ListTransactionsHandler(pool))

	mux.HandleFunc("/finance/subscriptions/create", subscriptions.CreateSubscriptionHandler(pool))
	mux.HandleFunc("/finance/subscriptions/set-status", subscriptions.SetSubscriptionStatusHandler(pool))
	mux.HandleFunc("/finance/subscriptions/all", subscriptions.ListSubscriptionsHandler(pool))

	mux.HandleFunc("/finance/payroll/create", payroll.CreatePayrollHandler(pool, fx))
	mux.HandleFunc("/finance/payroll/mark-paid", payroll.MarkPayrollPaidHandler(pool))
	mux.HandleFunc("/finance/payroll/all", payroll.ListPayrollHandler(pool))

	mux.HandleFunc("/finance/distributions/run", distributions.RunDistributionHandler(pool))
	mux.HandleFunc("/finance/distributions/complete", distributions.CompleteDistributionHandler(pool))
	mux.HandleFunc("/finance/distributions/all", distributions.ListDistributionsHandler(pool))

	log.Println("Finance Service started on :6143")
	if err := http.ListenAndServe(":6143", mux); err != nil {
		log.Fatalf("Finance Service failed: %v", err)
	}
}

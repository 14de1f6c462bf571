package topics

const (
	// Apostas
	BetPlaced    = "bet_placed"
	BetCancelled = "bet_cancelled"

	// DLQ do audit-worker
	BetAuditDLQ = "bet_audit_dlq"
)

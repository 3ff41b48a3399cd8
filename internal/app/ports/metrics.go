package ports

// TurnMetrics counts turn outcomes for the ops KPI endpoint.
type TurnMetrics interface {
	RecordTurn(outcome string)
	RecordRejected()
	RecordFailure()
}

package service

import "time"

// Outcome labels recorded for registrations and authentications.
const (
	OutcomeSuccess            = "success"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// Metrics records credential operation outcomes and store latency.
type Metrics interface {
	RecordRegistration(outcome string)
	RecordAuthentication(outcome string)
	ObserveStoreCall(operation string, elapsed time.Duration)
}

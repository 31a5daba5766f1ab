package models

// Reason strings returned in a verdict. Selection follows a fixed
// precedence: no MX, then disposable, then low reputation.
const (
	ReasonInvalidSyntax = "Invalid email syntax"
	ReasonNoMX          = "Domain has no MX record"
	ReasonDisposable    = "Disposable email address"
	ReasonLowReputation = "Low reputation score"
	ReasonValid         = "Valid email address"
)

// Checks carries the per-stage results of the validation pipeline.
// MX and Disposable are nil when syntax failed and the pipeline
// short-circuited before running them.
type Checks struct {
	Syntax     bool    `json:"syntax"`
	MX         *bool   `json:"mx"`
	Disposable *bool   `json:"disposable"`
	Reputation float64 `json:"reputation"`
}

// Verdict is the result of validating one email address.
type Verdict struct {
	Valid      bool    `json:"valid"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
	Checks     Checks  `json:"checks"`
}

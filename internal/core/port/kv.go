package port

// Outcome classifies the result of a key-value store round trip. Store
// connectivity failures and timeouts resolve to OutcomeUnavailable rather
// than an error so every consumer can degrade to its safe default (allow
// the request, skip the cache, return an empty recency list) instead of
// failing the data path.
type Outcome int

const (
	// OutcomeOK means the operation succeeded and, for reads, a value exists.
	OutcomeOK Outcome = iota
	// OutcomeAbsent means the store answered but the key does not exist.
	OutcomeAbsent
	// OutcomeUnavailable means the store could not be reached in time.
	OutcomeUnavailable
)

// String returns a short label for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAbsent:
		return "absent"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

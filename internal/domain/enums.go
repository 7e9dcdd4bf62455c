package domain

// ImportStatus is the lifecycle of an import run
type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "RUNNING"
	ImportStatusCompleted ImportStatus = "COMPLETED"
	// PARTIAL - finished, but at least one batch reported errors
	ImportStatusPartial ImportStatus = "PARTIAL"
	// FAILED - aborted before every batch was sent
	ImportStatusFailed ImportStatus = "FAILED"
)

// IsValid checks if the import status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusRunning, ImportStatusCompleted, ImportStatusPartial, ImportStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the run can no longer change
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusPartial || s == ImportStatusFailed
}

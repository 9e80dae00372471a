package constants

// FileStatus is the canonical per-file outcome recorded in the run ledger.
type FileStatus string

// Stable values (store these exact strings in the ledger).
const (
	StatusWritten FileStatus = "WRITTEN" // all stages completed, essay on disk
	StatusFailed  FileStatus = "FAILED"  // terminal failure, run continues
)

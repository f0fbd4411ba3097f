package types

// Error codes surfaced on a failed Result.
const (
	CodeEmptyText    = "EMPTY_TEXT"
	CodeUnknownError = "UNKNOWN_ERROR"
)

// Result is the outcome of one chunking call. A call either fully succeeds
// with a complete, ordered chunk list or fully fails with zero chunks; there
// is no partial state.
type Result struct {
	Success              bool            `json:"success"`
	Chunks               []DocumentChunk `json:"chunks"`
	TotalTokens          int             `json:"total_tokens"`
	ProcessingDurationMs int64           `json:"processing_duration_ms"`
	Error                string          `json:"error,omitempty"`
	ErrorCode            string          `json:"error_code,omitempty"`
}

// Failure builds a failed result with the given code and message.
func Failure(code, msg string, durationMs int64) Result {
	return Result{
		Success:              false,
		Chunks:               nil,
		ProcessingDurationMs: durationMs,
		Error:                msg,
		ErrorCode:            code,
	}
}

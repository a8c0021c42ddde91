package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeUnknown       ErrorCode = "COMMON_000"
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeValidation    ErrorCode = "COMMON_002"
	ErrCodeSerialization ErrorCode = "COMMON_003"
	ErrCodeNotFound      ErrorCode = "COMMON_004"
)

// Pipeline stage error codes.
//
// These map one-to-one onto the failure modes a stage can report: the input
// table is absent, a required column is absent, the table is empty after
// filtering, or a cluster is too small to stratify-split.
const (
	ErrCodeMissingInput             ErrorCode = "PIPE_001"
	ErrCodeMissingColumn            ErrorCode = "PIPE_002"
	ErrCodeEmptyDataset             ErrorCode = "PIPE_003"
	ErrCodeInsufficientClassSupport ErrorCode = "PIPE_004"
)

// Model error codes.
const (
	ErrCodeModelNotFitted      ErrorCode = "MODEL_001"
	ErrCodeDimensionMismatch   ErrorCode = "MODEL_002"
	ErrCodeArtifactInvalid     ErrorCode = "MODEL_003"
	ErrCodeArtifactWriteFailed ErrorCode = "MODEL_004"
)

// MissingColumn builds the canonical error for an absent required column,
// naming both the missing and the available columns so the caller can fix
// the dataset without re-running with extra logging.
func MissingColumn(context string, missing, available []string) *AppError {
	return Newf(ErrCodeMissingColumn, "%s: missing required columns %v", context, missing).
		WithDetail("available columns: " + joinColumns(available))
}

func joinColumns(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

package model

import "errors"

// Evaluation failures. All are deterministic input or setup problems; none
// are worth retrying.
var (
	ErrUnknownJobTitle     = errors.New("unknown job title")
	ErrModelUnavailable    = errors.New("model unavailable")
	ErrInvalidPercentile   = errors.New("invalid percentile")
	ErrEmptyResidualSample = errors.New("empty residual sample")
	ErrNonPositiveSalary   = errors.New("non-positive salary")
	ErrUndefinedDeviation  = errors.New("undefined deviation")
	ErrInvalidRecord       = errors.New("invalid employee record")
	ErrInvalidPolicy       = errors.New("invalid threshold policy")
	ErrFeatureMismatch     = errors.New("feature schema mismatch")
	ErrTransformMismatch   = errors.New("transform mismatch")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUnknownJobTitle, "unknown_job_title"},
	{ErrModelUnavailable, "model_unavailable"},
	{ErrInvalidPercentile, "invalid_percentile"},
	{ErrEmptyResidualSample, "empty_residual_sample"},
	{ErrNonPositiveSalary, "non_positive_salary"},
	{ErrUndefinedDeviation, "undefined_deviation"},
	{ErrInvalidRecord, "invalid_record"},
	{ErrInvalidPolicy, "invalid_policy"},
	{ErrFeatureMismatch, "feature_mismatch"},
	{ErrTransformMismatch, "transform_mismatch"},
}

// ErrorCode maps err to a stable snake_case code. Errors outside the
// taxonomy map to "internal".
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

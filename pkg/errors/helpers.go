package errors

import (
	"context"
	stderrors "errors"
)

// CheckContext returns an error if the context is canceled or timed out.
// This provides a standardized way to check and wrap context errors.
func CheckContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		code := Canceled
		if stderrors.Is(err, context.DeadlineExceeded) {
			code = Timeout
		}
		return Wrap(err, code, operation+" canceled")
	}
	return nil
}

// CodeOf extracts the ErrorCode from an error, or Unknown for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return Unknown
}

// IsInfeasible reports whether err marks a candidate outside the constraint space.
func IsInfeasible(err error) bool {
	return CodeOf(err) == Infeasible
}

// IsPredictionFailure reports whether err came from the external
// feature/prediction chain, including timeouts.
func IsPredictionFailure(err error) bool {
	code := CodeOf(err)
	return code == PredictionFailed || code == Timeout
}

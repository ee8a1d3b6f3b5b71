package metrics

import "github.com/kirillkom/app-extractor/internal/core/domain"

// Outcome buckets an extraction result into a low-cardinality label.
func Outcome(documents int, err error) string {
	switch {
	case err == nil && documents > 0:
		return "success"
	case err == nil:
		return "empty"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid"
	case domain.IsKind(err, domain.ErrNotFound):
		return "not_found"
	case domain.IsKind(err, domain.ErrUnauthorized):
		return "unauthorized"
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "error"
	}
}

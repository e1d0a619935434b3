// Package apierr maps ledger error kinds onto HTTP problem responses.
package apierr

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
)

func Status(kind ledgererr.Kind) int {
	switch kind {
	case ledgererr.KindNotFound:
		return http.StatusNotFound
	case ledgererr.KindInvalidInput:
		return http.StatusBadRequest
	case ledgererr.KindInviteExpired:
		return http.StatusGone
	case ledgererr.KindInviteAlreadyUsed, ledgererr.KindAlreadyInFamily, ledgererr.KindIssuerHasNoFamily:
		return http.StatusConflict
	case ledgererr.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts a service error into a huma error. The ledger kind is
// carried in the problem details so clients can branch on it.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	kind := ledgererr.KindOf(err)
	status := Status(kind)
	switch status {
	case http.StatusInternalServerError:
		return huma.NewError(status, "internal error")
	case http.StatusServiceUnavailable:
		return huma.NewError(status, "storage unavailable, retry later", &huma.ErrorDetail{Location: "kind", Value: kind.String()})
	default:
		return huma.NewError(status, err.Error(), &huma.ErrorDetail{Location: "kind", Value: kind.String()})
	}
}

package cart

import "github.com/storefront/cart/internal/domain/shared"

// Cart errors. Expected failures (network, bad storage) never panic; they are
// reported through these values.
var (
	ErrInvalidQuantity    = shared.NewDomainError("INVALID_INPUT", "quantity must be at least 1")
	ErrMissingProductRef  = shared.NewDomainError("INVALID_INPUT", "product reference is required")
	ErrLineItemNotFound   = shared.NewDomainError("NOT_FOUND", "cart line item not found")
	ErrPrivilegedIdentity = shared.NewDomainError("FORBIDDEN", "privileged identities do not have a cart")
	ErrRemoteRemoveFailed = shared.NewDomainError("REMOTE_FAILURE", "remote cart rejected the removal")
)

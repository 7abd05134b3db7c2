// Package policy decides whether an identity may perform a read on orders it may not own.
package policy

import (
	"fmt"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
)

type Action string

const (
	ReadOrder    Action = "read_order"
	ReadStatus   Action = "read_status"
	ListAll      Action = "list_all"
	ListCustomer Action = "list_customer"
)

// Authorize returns nil when id may perform action on a resource owned by ownerID.
// ownerID is ignored for ListAll.
func Authorize(id domain.Identity, ownerID uint, action Action) error {
	if id.IsAdmin {
		return nil
	}
	switch action {
	case ReadOrder, ReadStatus, ListCustomer:
		if id.UserID != 0 && id.UserID == ownerID {
			return nil
		}
	case ListAll:
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrForbidden, action)
	}
	return fmt.Errorf("%w: user %d may not %s of user %d", domain.ErrForbidden, id.UserID, action, ownerID)
}

package actor

import (
	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/auth"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
)

// Actor is the authenticated caller within a single tenant. It is built
// once per request from the token claims and handed down to services,
// so authorization decisions never re-read the request context.
type Actor struct {
	UserID       uuid.UUID
	TenantID     uuid.UUID
	MembershipID uuid.UUID
	Roles        []enums.MemberRole
}

// FromClaims builds an Actor from validated token claims.
func FromClaims(claims *auth.AccessTokenClaims) Actor {
	return Actor{
		UserID:       claims.UserID,
		TenantID:     claims.TenantID,
		MembershipID: claims.MembershipID,
		Roles:        claims.Roles,
	}
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role enums.MemberRole) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the actor can manage ledger data for any unit
// in the tenant. Admins and operators are staff.
func (a Actor) IsStaff() bool {
	return a.HasRole(enums.MemberRoleAdmin) || a.HasRole(enums.MemberRoleOperator)
}

// CanManageCharges reports whether the actor may create, update or
// cancel charges.
func (a Actor) CanManageCharges() bool {
	return a.IsStaff()
}

// CanReviewPayments reports whether the actor may approve or reject
// submitted payments.
func (a Actor) CanReviewPayments() bool {
	return a.IsStaff()
}

// CanManageAllocations reports whether the actor may create or delete
// allocations.
func (a Actor) CanManageAllocations() bool {
	return a.IsStaff()
}

// CanSubmitPayments reports whether the actor may report a payment.
// Residents and owners submit for their own units; staff for any unit.
// Unit-level visibility is enforced separately by the scope checks.
func (a Actor) CanSubmitPayments() bool {
	return len(a.Roles) > 0
}

// Ref converts the actor into the outbox attribution shape.
func (a Actor) Ref() *outbox.ActorRef {
	roles := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, r.String())
	}
	return &outbox.ActorRef{
		UserID:       a.UserID,
		MembershipID: a.MembershipID,
		Roles:        roles,
	}
}

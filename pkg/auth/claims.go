package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	TenantID     uuid.UUID
	MembershipID uuid.UUID
	Roles        []enums.MemberRole
	JTI          string
}

// AccessTokenClaims is the typed JWT issued to clients. Roles mirror
// the membership row at mint time; the access policy re-reads them
// from the token on every request.
type AccessTokenClaims struct {
	UserID       uuid.UUID          `json:"user_id"`
	TenantID     uuid.UUID          `json:"tenant_id"`
	MembershipID uuid.UUID          `json:"membership_id"`
	Roles        []enums.MemberRole `json:"roles"`
	jwt.RegisteredClaims
}

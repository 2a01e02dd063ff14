package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PartnerID  uuid.UUID
	AuthorType enums.AuthorType
	AuthorID   uuid.UUID
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	PartnerID  uuid.UUID        `json:"partner_id"`
	AuthorType enums.AuthorType `json:"author_type"`
	AuthorID   uuid.UUID        `json:"author_id"`
	jwt.RegisteredClaims
}

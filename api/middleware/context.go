package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/enums"
)

type contextKey string

const (
	ctxPartnerID  contextKey = "partner_id"
	ctxAuthorType contextKey = "author_type"
	ctxAuthorID   contextKey = "author_id"
)

func PartnerIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxPartnerID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func AuthorTypeFromContext(ctx context.Context) enums.AuthorType {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAuthorType).(enums.AuthorType); ok {
		return v
	}
	return ""
}

func AuthorIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxAuthorID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithActor seeds the context with the authenticated actor, as the auth
// middleware does. Exposed for handler tests.
func WithActor(ctx context.Context, partnerID uuid.UUID, authorType enums.AuthorType, authorID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxPartnerID, partnerID)
	ctx = context.WithValue(ctx, ctxAuthorType, authorType)
	return context.WithValue(ctx, ctxAuthorID, authorID)
}

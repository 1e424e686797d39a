package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/api/middleware"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
)

// customerIDFromContext resolves the authenticated user's ID set by the auth
// middleware.
func customerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer identity")
	}
	return id, nil
}

// parseUUIDString validates a UUID carried in a request body field.
func parseUUIDString(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}

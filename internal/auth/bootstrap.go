package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/security"
)

// EnsureAdmin seeds the bootstrap admin account from config when no user with
// that email exists yet. A blank password skips seeding, so production deploys
// that manage admins through the console are unaffected.
func EnsureAdmin(ctx context.Context, repo *customers.Repository, cfg config.AdminConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin email")
	}

	passwordHash, err := security.HashPassword(cfg.Password, passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "Store Admin",
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin user")
	}
	if logg != nil {
		logg.Info(ctx, "bootstrap admin account created")
	}
	return nil
}

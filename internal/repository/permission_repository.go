package repository

import (
	"context"
	"database/sql"

	"stock-control/internal/database"
	"stock-control/internal/domain"
)

// PermissionRepository answers permission checks against the security schema.
type PermissionRepository interface {
	Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error)
}

type permissionRepository struct {
	db *sql.DB
}

// NewPermissionRepository creates a new instance of PermissionRepository
func NewPermissionRepository(db *sql.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error) {
	var allowed int16
	err := database.QueryRowProc(ctx, r.db, "security.sp_permission_check",
		[]any{credential.IDAccount, credential.IDUser, string(securable), string(permission)},
		func(row *sql.Row) error {
			return row.Scan(&allowed)
		},
	)
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"stock-control/internal/domain"
	"stock-control/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PermissionService answers permission checks with a Redis cache in front of
// the security procedure. Cache failures are logged and fall through to the
// database, so Redis being down degrades latency, not correctness.
type PermissionService interface {
	Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error)
}

type permissionService struct {
	permissionRepo repository.PermissionRepository
	redisClient    *redis.Client
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewPermissionService creates a new instance of PermissionService
func NewPermissionService(
	permissionRepo repository.PermissionRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) PermissionService {
	return &permissionService{
		permissionRepo: permissionRepo,
		redisClient:    redisClient,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

func permissionCacheKey(credential domain.Credential, securable domain.Securable, permission domain.Permission) string {
	return fmt.Sprintf("perm:%d:%d:%s:%s", credential.IDAccount, credential.IDUser, securable, permission)
}

func (s *permissionService) Check(ctx context.Context, credential domain.Credential, securable domain.Securable, permission domain.Permission) (bool, error) {
	key := permissionCacheKey(credential, securable, permission)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, key).Result()
		switch {
		case err == nil:
			return cached == "1", nil
		case err != redis.Nil:
			s.logger.Warn("Permission cache read failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	allowed, err := s.permissionRepo.Check(ctx, credential, securable, permission)
	if err != nil {
		return false, err
	}

	if s.redisClient != nil {
		value := "0"
		if allowed {
			value = "1"
		}
		if err := s.redisClient.Set(ctx, key, value, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("Permission cache write failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return allowed, nil
}

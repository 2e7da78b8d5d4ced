package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/logger"
)

// AvailabilityCache guarda a grade do dia já computada. A grade é
// recalculável a qualquer momento; TTL curto + invalidação por escrita
// mantém a idempotência observável da consulta.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// NewRedisClient conecta e valida o redis; retorna nil quando indisponível
// (cache desligado, serviço segue funcionando).
func NewRedisClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.L().Warn("redis unavailable, availability cache disabled",
			zap.Error(err))
		return nil
	}

	return client
}

func key(in domain.AvailabilityInput) string {
	return fmt.Sprintf(
		"availability:%s:%s:%s:%s",
		in.CompanyID,
		in.ProfessionalID,
		in.Date.Format("2006-01-02"),
		in.ServiceID,
	)
}

func dayPattern(companyID, professionalID string, day time.Time) string {
	return fmt.Sprintf(
		"availability:%s:%s:%s:*",
		companyID,
		professionalID,
		day.Format("2006-01-02"),
	)
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, bool) {

	raw, err := c.client.Get(ctx, key(in)).Bytes()
	if err != nil {
		return nil, false
	}

	var av domain.Availability
	if err := json.Unmarshal(raw, &av); err != nil {
		return nil, false
	}

	return &av, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	in domain.AvailabilityInput,
	av *domain.Availability,
) {
	raw, err := json.Marshal(av)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key(in), raw, c.ttl).Err(); err != nil {
		logger.L().Debug("availability cache set failed", zap.Error(err))
	}
}

// InvalidateDay remove todas as grades do profissional no dia (uma chave
// por serviço consultado).
func (c *AvailabilityCache) InvalidateDay(
	ctx context.Context,
	companyID string,
	professionalID string,
	day time.Time,
) {
	iter := c.client.Scan(ctx, 0, dayPattern(companyID, professionalID, day), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.L().Debug("availability cache invalidation failed", zap.Error(err))
		}
	}
}

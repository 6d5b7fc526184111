package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/roktoapp/donation-service/internal/config"
	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

const (
	statsCacheKey = "statistics"
	statsCacheTTL = 30 * time.Second
)

// StatsService aggregates the dashboard numbers. The three counts hit
// three tables, so results are cached in Redis for a short window; the
// cache sits behind a circuit breaker and an outage degrades to direct
// queries without hammering a dead Redis.
type StatsService struct {
	userRepo    ports.UserRepository
	requestRepo ports.RequestRepository
	fundRepo    ports.FundRepository
	redisClient *redis.Client
	redisCB     *gobreaker.CircuitBreaker
}

var _ ports.StatsService = (*StatsService)(nil)

func NewStatsService(userRepo ports.UserRepository, requestRepo ports.RequestRepository, fundRepo ports.FundRepository, redisClient *redis.Client) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		fundRepo:    fundRepo,
		redisClient: redisClient,
		redisCB:     config.NewCircuitBreaker("Redis-Stats"),
	}
}

func (s *StatsService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	if s.redisClient != nil {
		cached, err := s.redisCB.Execute(func() (interface{}, error) {
			val, err := s.redisClient.Get(ctx, statsCacheKey).Result()
			if err == redis.Nil {
				// A miss is not a dependency failure.
				return "", nil
			}
			return val, err
		})
		if err != nil {
			log.Printf("stats: redis read failed, falling through: %v", err)
		} else if body := cached.(string); body != "" {
			var stats domain.Statistics
			if err := json.Unmarshal([]byte(body), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	totalDonors, err := s.userRepo.CountDonors(ctx)
	if err != nil {
		return nil, err
	}
	totalRequests, err := s.requestRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalFunds, err := s.fundRepo.TotalAmount(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.Statistics{
		TotalUsers:            totalDonors,
		TotalDonationRequests: totalRequests,
		TotalFunds:            totalFunds,
	}

	if s.redisClient != nil {
		if body, err := json.Marshal(stats); err == nil {
			if _, err := s.redisCB.Execute(func() (interface{}, error) {
				return nil, s.redisClient.Set(ctx, statsCacheKey, body, statsCacheTTL).Err()
			}); err != nil {
				log.Printf("stats: redis write failed: %v", err)
			}
		}
	}
	return stats, nil
}

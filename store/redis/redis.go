package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/workflowpaths/log"
	"github.com/smallnest/workflowpaths/store"
)

// RedisReportStore implements store.ReportStore using Redis
type RedisReportStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "workflows:"
	TTL      time.Duration // Expiration for reports, default 0 (no expiration)
}

// NewRedisReportStore creates a new Redis report store
func NewRedisReportStore(opts RedisOptions) *RedisReportStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "workflows:"
	}

	return &RedisReportStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// Close closes the client
func (s *RedisReportStore) Close() error {
	return s.client.Close()
}

func (s *RedisReportStore) reportKey(id string) string {
	return fmt.Sprintf("%sreport:%s", s.prefix, id)
}

func (s *RedisReportStore) sourceKey(source string) string {
	return fmt.Sprintf("%ssource:%s:reports", s.prefix, source)
}

func (s *RedisReportStore) allKey() string {
	return s.prefix + "reports"
}

// Save stores a report
func (s *RedisReportStore) Save(ctx context.Context, report *store.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	previous, err := s.Load(ctx, report.ID)
	if err != nil && !errors.Is(err, store.ErrReportNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.reportKey(report.ID), data, s.ttl)

	// Index by source
	if previous != nil && previous.Source != report.Source {
		pipe.SRem(ctx, s.sourceKey(previous.Source), report.ID)
	}
	sourceKey := s.sourceKey(report.Source)
	pipe.SAdd(ctx, sourceKey, report.ID)
	pipe.SAdd(ctx, s.allKey(), report.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, sourceKey, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save report to redis: %w", err)
	}
	return nil
}

// Load retrieves a report by ID
func (s *RedisReportStore) Load(ctx context.Context, reportID string) (*store.Report, error) {
	data, err := s.client.Get(ctx, s.reportKey(reportID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", store.ErrReportNotFound, reportID)
		}
		return nil, fmt.Errorf("failed to load report from redis: %w", err)
	}

	var report store.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// List returns the reports of a source, oldest first
func (s *RedisReportStore) List(ctx context.Context, source string) ([]*store.Report, error) {
	indexKey := s.allKey()
	if source != "" {
		indexKey = s.sourceKey(source)
	}

	reportIDs, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for source %q: %w", source, err)
	}
	if len(reportIDs) == 0 {
		return []*store.Report{}, nil
	}

	keys := make([]string, 0, len(reportIDs))
	for _, id := range reportIDs {
		keys = append(keys, s.reportKey(id))
	}

	// MGet returns nil for keys that expired since they were indexed
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	reports := make([]*store.Report, 0, len(results))
	for i, result := range results {
		data, ok := result.(string)
		if !ok {
			continue
		}
		var report store.Report
		if err := json.Unmarshal([]byte(data), &report); err != nil {
			log.Warn("skipping unreadable report %s: %v", reportIDs[i], err)
			continue
		}
		reports = append(reports, &report)
	}

	store.SortByCreation(reports)
	return reports, nil
}

// Delete removes a report
func (s *RedisReportStore) Delete(ctx context.Context, reportID string) error {
	report, err := s.Load(ctx, reportID)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.reportKey(reportID))
	pipe.SRem(ctx, s.sourceKey(report.Source), reportID)
	pipe.SRem(ctx, s.allKey(), reportID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all reports of a source
func (s *RedisReportStore) Clear(ctx context.Context, source string) error {
	sourceKey := s.sourceKey(source)
	reportIDs, err := s.client.SMembers(ctx, sourceKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get reports for clearing: %w", err)
	}
	if len(reportIDs) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, id := range reportIDs {
		pipe.Del(ctx, s.reportKey(id))
		pipe.SRem(ctx, s.allKey(), id)
	}
	pipe.Del(ctx, sourceKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}

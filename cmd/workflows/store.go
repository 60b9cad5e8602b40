package main

import (
	"context"
	"fmt"

	"github.com/smallnest/workflowpaths/config"
	"github.com/smallnest/workflowpaths/store"
	"github.com/smallnest/workflowpaths/store/file"
	"github.com/smallnest/workflowpaths/store/memory"
	"github.com/smallnest/workflowpaths/store/postgres"
	"github.com/smallnest/workflowpaths/store/redis"
	"github.com/smallnest/workflowpaths/store/sqlite"
)

// openStore builds the configured report store. The returned function
// releases its connections.
func openStore(ctx context.Context, sc config.StoreConfig) (store.ReportStore, func(), error) {
	noop := func() {}
	switch sc.Backend {
	case "memory":
		return memory.NewMemoryReportStore(), noop, nil
	case "file":
		s, err := file.NewFileReportStore(sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case "sqlite":
		s, err := sqlite.NewSqliteReportStore(sqlite.SqliteOptions{Path: sc.DSN, TableName: sc.Table})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := postgres.NewPostgresReportStore(ctx, postgres.PostgresOptions{ConnString: sc.DSN, TableName: sc.Table})
		if err != nil {
			return nil, nil, err
		}
		if err := s.InitSchema(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	case "redis":
		s := redis.NewRedisReportStore(redis.RedisOptions{Addr: sc.DSN, Prefix: sc.Prefix, TTL: sc.TTL})
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

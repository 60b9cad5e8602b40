// Package redis provides a Redis-backed store.ReportStore.
//
// Each report is one JSON string under "<prefix>report:<id>". A set per
// source and one global set index the IDs. With a TTL, reports and source
// sets expire; List skips index entries whose report is gone.
//
//	s := redis.NewRedisReportStore(redis.RedisOptions{
//		Addr: "localhost:6379",
//		TTL:  24 * time.Hour,
//	})
//	defer s.Close()
package redis

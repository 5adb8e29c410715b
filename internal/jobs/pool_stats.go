package jobs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PoolStats is a snapshot of connection pool usage.
type PoolStats struct {
	TotalConns    int32
	AcquiredConns int32
	IdleConns     int32
	MaxConns      int32
	AcquireCount  int64
}

// PgxPoolStats reads a snapshot from a pgx pool.
func PgxPoolStats(pool *pgxpool.Pool) func() PoolStats {
	return func() PoolStats {
		stat := pool.Stat()
		return PoolStats{
			TotalConns:    stat.TotalConns(),
			AcquiredConns: stat.AcquiredConns(),
			IdleConns:     stat.IdleConns(),
			MaxConns:      stat.MaxConns(),
			AcquireCount:  stat.AcquireCount(),
		}
	}
}

// PoolStatsReporter logs pool usage and warns when every connection is checked out.
type PoolStatsReporter struct {
	stats  func() PoolStats
	logger *logrus.Logger
}

func NewPoolStatsReporter(stats func() PoolStats, logger *logrus.Logger) *PoolStatsReporter {
	return &PoolStatsReporter{stats: stats, logger: logger}
}

func (r *PoolStatsReporter) Run(_ context.Context) error {
	s := r.stats()
	entry := r.logger.WithFields(logrus.Fields{
		"total_conns":    s.TotalConns,
		"acquired_conns": s.AcquiredConns,
		"idle_conns":     s.IdleConns,
		"max_conns":      s.MaxConns,
		"acquire_count":  s.AcquireCount,
	})

	if s.MaxConns > 0 && s.AcquiredConns >= s.MaxConns {
		entry.Warn("Database pool exhausted")
		return nil
	}
	entry.Info("Database pool stats")
	return nil
}

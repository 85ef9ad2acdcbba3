package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskvault/backend/internal/infrastructure/auditspool"
	"github.com/taskvault/backend/usecase"
)

// RedisHealth abstracts the connection monitor functionality.
type RedisHealth interface {
	RedisOnline() bool
}

// TrailConfig controls the audit trail destination and spool draining.
type TrailConfig struct {
	Key            string
	MaxEntries     int
	DrainInterval  time.Duration
	BatchSize      int
	MaxRetries     int
	RetentionHours int
}

// AuditTrail records auth events to a capped Redis list. Events that cannot
// reach Redis are spooled in BoltDB and drained on a schedule.
type AuditTrail struct {
	redis   *redislib.Client
	spool   *auditspool.Store
	monitor RedisHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     TrailConfig
}

func NewAuditTrail(
	client *redislib.Client,
	spool *auditspool.Store,
	monitor RedisHealth,
	logger *zap.Logger,
	cfg TrailConfig,
) *AuditTrail {
	if cfg.Key == "" {
		cfg.Key = "audit:auth"
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10_000
	}
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &AuditTrail{
		redis:   client,
		spool:   spool,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.DrainInterval.Seconds()))
	_, _ = t.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DrainInterval)
		defer cancel()
		if err := t.Drain(ctx); err != nil {
			t.logger.Error("audit spool drain failed", zap.Error(err))
		}
	})
	if cfg.RetentionHours > 0 {
		_, _ = t.cron.AddFunc("@hourly", func() {
			cutoff := time.Now().Add(-time.Duration(cfg.RetentionHours) * time.Hour)
			if err := spool.Cleanup(cutoff); err != nil {
				t.logger.Warn("audit spool cleanup failed", zap.Error(err))
			}
		})
	}

	return t
}

// Start launches the drain scheduler.
func (t *AuditTrail) Start() {
	if t == nil || t.cron == nil {
		return
	}
	t.cron.Start()
	t.logger.Info("audit trail started")
}

// Stop gracefully stops the scheduler.
func (t *AuditTrail) Stop(ctx context.Context) {
	if t == nil || t.cron == nil {
		return
	}
	stopCtx := t.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	t.logger.Info("audit trail stopped")
}

// RecordAuthEvent writes the event to Redis, spooling it locally when the
// write fails. Recording never blocks the auth path on a full retry loop.
func (t *AuditTrail) RecordAuthEvent(ctx context.Context, event usecase.AuthEvent) error {
	spooled := auditspool.NewEvent(event.Kind, event.Email, event.Reason)

	if t.monitor == nil || t.monitor.RedisOnline() {
		if err := t.push(ctx, spooled); err == nil {
			return nil
		} else {
			t.logger.Warn("audit write failed, spooling", zap.Error(err))
		}
	}
	return t.spool.Enqueue(spooled)
}

// Drain pushes spooled events to Redis and removes them on success.
func (t *AuditTrail) Drain(ctx context.Context) error {
	if t == nil || t.spool == nil {
		return nil
	}
	if t.monitor != nil && !t.monitor.RedisOnline() {
		t.logger.Debug("skipping audit drain (redis offline)")
		return nil
	}

	events, err := t.spool.GetBatch(t.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := t.push(ctx, event); err != nil {
			t.logger.Error("failed to flush audit event",
				zap.String("event_id", event.ID),
				zap.Error(err))

			event.Retries++
			if event.Retries >= t.cfg.MaxRetries {
				t.logger.Warn("dropping audit event (max retries reached)", zap.String("event_id", event.ID))
				_ = t.spool.Remove(event)
				continue
			}

			if err := t.spool.Remove(event); err != nil {
				t.logger.Warn("failed to remove audit event", zap.Error(err))
			}
			if err := t.spool.Requeue(event); err != nil {
				t.logger.Error("failed to requeue audit event", zap.Error(err))
			}
			continue
		}

		if err := t.spool.Remove(event); err != nil {
			t.logger.Warn("failed to purge flushed audit event", zap.Error(err))
		}
	}
	return nil
}

func (t *AuditTrail) push(ctx context.Context, event auditspool.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := t.redis.TxPipeline()
	pipe.LPush(ctx, t.cfg.Key, payload)
	pipe.LTrim(ctx, t.cfg.Key, 0, int64(t.cfg.MaxEntries)-1)
	_, err = pipe.Exec(ctx)
	return err
}

var _ usecase.AuditRecorder = (*AuditTrail)(nil)

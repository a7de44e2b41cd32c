package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type snapshotRebuilder interface {
	Rebuild(ctx context.Context) error
}

// DirectoryRefresher rebuilds the directory snapshot on a cron schedule.
type DirectoryRefresher struct {
	cron    *cron.Cron
	target  snapshotRebuilder
	spec    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewDirectoryRefresher constructs a refresher for spec, e.g. "@every 5m".
func NewDirectoryRefresher(target snapshotRebuilder, spec string, logger *zap.Logger) *DirectoryRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryRefresher{
		cron:    cron.New(cron.WithLogger(cronLogger{logger.Sugar()})),
		target:  target,
		spec:    spec,
		timeout: time.Minute,
		logger:  logger,
	}
}

// Start registers the job, starts the scheduler and runs one rebuild immediately.
func (r *DirectoryRefresher) Start(ctx context.Context) error {
	if r.spec == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(r.spec, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("schedule directory refresh: %w", err)
	}
	r.cron.Start()
	r.logger.Info("directory refresher started", zap.String("spec", r.spec))

	go r.run(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running rebuild to finish.
func (r *DirectoryRefresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("directory refresher stopped")
}

func (r *DirectoryRefresher) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.target.Rebuild(runCtx); err != nil {
		r.logger.Warn("directory refresh failed", zap.Error(err))
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

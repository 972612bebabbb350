package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sportafit/booking-service/internal/usecase/expire_bookings"
)

// ExpireUseCase один проход очистки истёкших бронирований
type ExpireUseCase interface {
	Execute(ctx context.Context) (expire_bookings.Result, error)
}

// SweepRecorder метрика длительности прохода
type SweepRecorder interface {
	ObserveSweep(duration time.Duration)
}

// Logger интерфейс для логирования
// Printf нужен планировщику cron
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
	Printf(format string, v ...interface{})
}

// Sweeper периодически переводит просроченные pending бронирования в expired
// Пропущенные тики не догоняются, следующий проход подберёт всё, что накопилось
type Sweeper struct {
	cron    *cron.Cron
	useCase ExpireUseCase
	metrics SweepRecorder
	timeout time.Duration
	logger  Logger
}

// NewSweeper schedule в формате cron или "@every 1m"
func NewSweeper(schedule string, timeout time.Duration, useCase ExpireUseCase, metrics SweepRecorder, logger Logger) (*Sweeper, error) {
	cronLogger := cron.PrintfLogger(logger)
	s := &Sweeper{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		useCase: useCase,
		metrics: metrics,
		timeout: timeout,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("jobs: invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start запускает планировщик в отдельной горутине
func (s *Sweeper) Start() {
	s.logger.Info("Sweeper: started")
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущего прохода или отмены ctx
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Sweeper: stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("jobs: sweeper stop: %w", ctx.Err())
	}
}

// RunOnce выполняет один проход вне расписания
func (s *Sweeper) RunOnce() {
	s.tick()
}

func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	_, err := s.useCase.Execute(ctx)
	s.metrics.ObserveSweep(time.Since(start))

	if err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
	}
}

package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/cache"

	"go.uber.org/zap"
)

// Locker не даёт запустить одну задачу на нескольких репликах одновременно.
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (*cache.Lock, error)
	ReleaseLock(ctx context.Context, l *cache.Lock) error
}

type Entry struct {
	Job        Job
	Interval   time.Duration
	RunOnStart bool
}

type Scheduler struct {
	entries []Entry
	locker  Locker
	log     *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler — locker может быть nil, тогда задачи выполняются без блокировки.
func NewScheduler(entries []Entry, locker Locker, log *zap.Logger) *Scheduler {
	return &Scheduler{
		entries: entries,
		locker:  locker,
		log:     log,
		stopCh:  make(chan struct{}),
	}
}

// Start запускает по горутине с тикером на каждую задачу
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting jobs scheduler", zap.Int("jobs", len(s.entries)))

	for _, e := range s.entries {
		if e.Interval <= 0 {
			s.log.Warn("job has no interval, skipped", zap.String("job", e.Job.Name()))
			continue
		}
		s.wg.Add(1)
		go s.run(ctx, e)
	}
}

// Stop останавливает планировщик и ждёт завершения текущих запусков
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("stopping jobs scheduler")
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, e Entry) {
	defer s.wg.Done()

	name := e.Job.Name()
	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	if e.RunOnStart {
		if err := s.execute(ctx, e); err != nil {
			s.log.Error("initial job run failed", zap.String("job", name), zap.Error(err))
		}
	}

	for {
		select {
		case <-ticker.C:
			if err := s.execute(ctx, e); err != nil {
				s.log.Error("job failed", zap.String("job", name), zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("job stopped", zap.String("job", name))
			return
		case <-ctx.Done():
			s.log.Info("job cancelled", zap.String("job", name))
			return
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, e Entry) (err error) {
	name := e.Job.Name()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
	}()

	if s.locker != nil {
		ttl := e.Interval
		if ttl <= 0 {
			ttl = time.Minute
		}
		lock, lerr := s.locker.AcquireLock(ctx, "job:"+name, ttl)
		if lerr != nil {
			return fmt.Errorf("acquire lock: %w", lerr)
		}
		if lock == nil {
			s.log.Debug("job is running elsewhere, skipped", zap.String("job", name))
			return nil
		}
		defer func() {
			if rerr := s.locker.ReleaseLock(context.WithoutCancel(ctx), lock); rerr != nil {
				s.log.Warn("failed to release job lock", zap.String("job", name), zap.Error(rerr))
			}
		}()
	}

	start := time.Now()
	if err := e.Job.Run(ctx); err != nil {
		return err
	}
	s.log.Info("job completed", zap.String("job", name), zap.Duration("took", time.Since(start)))
	return nil
}

// RunOnceNow выполняет все задачи по одному разу, последовательно. Ошибка одной задачи
// не мешает остальным.
func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	var errs []error
	for _, e := range s.entries {
		if err := s.execute(ctx, e); err != nil {
			s.log.Error("job failed", zap.String("job", e.Job.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", e.Job.Name(), err))
		}
	}
	return errors.Join(errs...)
}

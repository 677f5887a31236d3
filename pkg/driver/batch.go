package driver

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"sigil/pkg/config"
)

// CheckResult is the front-end verdict for one file.
type CheckResult struct {
	Path     string
	Err      error
	Duration time.Duration
	WorkerID int
}

// BatchStats summarizes a CheckFiles run.
type BatchStats struct {
	WorkerCount   int
	TotalJobs     int
	CompletedJobs int
	FailedJobs    int
	TotalTime     time.Duration
	AverageTime   time.Duration
}

type checkJob struct {
	index int
	path  string
}

type indexedResult struct {
	index  int
	result CheckResult
}

// checkPool runs tokenize, parse and analyze for queued files. Each job gets
// its own Session, so workers never share a registry.
type checkPool struct {
	cfg        *config.Config
	logger     *slog.Logger
	numWorkers int

	jobQueue   chan checkJob
	resultChan chan indexedResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats      BatchStats
	statsMutex sync.Mutex
}

func newCheckPool(cfg *config.Config, logger *slog.Logger) *checkPool {
	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &checkPool{cfg: cfg, logger: logger, numWorkers: numWorkers}
}

func (cp *checkPool) start(ctx context.Context, queued int) error {
	if !atomic.CompareAndSwapInt32(&cp.started, 0, 1) {
		return fmt.Errorf("check pool already started")
	}
	if queued > 0 && queued < cp.numWorkers {
		cp.numWorkers = queued
	}
	cp.ctx, cp.cancel = context.WithCancel(ctx)
	cp.jobQueue = make(chan checkJob, cp.numWorkers)
	cp.resultChan = make(chan indexedResult, cp.numWorkers)
	cp.stats = BatchStats{WorkerCount: cp.numWorkers}

	for i := 0; i < cp.numWorkers; i++ {
		cp.wg.Add(1)
		go cp.work(i)
	}
	return nil
}

func (cp *checkPool) submit(job checkJob) error {
	if atomic.LoadInt32(&cp.stopped) == 1 {
		return fmt.Errorf("check pool stopped")
	}
	select {
	case cp.jobQueue <- job:
		atomic.AddInt32(&cp.activeJobs, 1)
		cp.statsMutex.Lock()
		cp.stats.TotalJobs++
		cp.statsMutex.Unlock()
		return nil
	case <-cp.ctx.Done():
		return cp.ctx.Err()
	}
}

// close stops accepting jobs; results is closed once every worker exits.
func (cp *checkPool) close() {
	if !atomic.CompareAndSwapInt32(&cp.stopped, 0, 1) {
		return
	}
	close(cp.jobQueue)
	go func() {
		cp.wg.Wait()
		close(cp.resultChan)
	}()
}

func (cp *checkPool) work(id int) {
	defer cp.wg.Done()
	cp.logger.Debug("check worker started", "worker", id)
	defer cp.logger.Debug("check worker stopped", "worker", id)

	for {
		select {
		case job, ok := <-cp.jobQueue:
			if !ok {
				return
			}
			result := cp.process(id, job)

			cp.statsMutex.Lock()
			if result.Err == nil {
				cp.stats.CompletedJobs++
			} else {
				cp.stats.FailedJobs++
			}
			cp.stats.TotalTime += result.Duration
			cp.stats.AverageTime = cp.stats.TotalTime / time.Duration(cp.stats.CompletedJobs+cp.stats.FailedJobs)
			cp.statsMutex.Unlock()
			atomic.AddInt32(&cp.activeJobs, -1)

			select {
			case cp.resultChan <- indexedResult{index: job.index, result: result}:
			case <-cp.ctx.Done():
				return
			}
		case <-cp.ctx.Done():
			return
		}
	}
}

func (cp *checkPool) process(id int, job checkJob) CheckResult {
	start := time.Now()
	result := CheckResult{Path: job.path, WorkerID: id}

	src, err := ReadSource(job.path)
	if err == nil {
		_, err = NewSession(cp.cfg, WithLogger(cp.logger)).Check(src)
	}
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

func (cp *checkPool) snapshot() BatchStats {
	cp.statsMutex.Lock()
	defer cp.statsMutex.Unlock()
	return cp.stats
}

// CheckFiles tokenizes, parses and analyzes every file in paths on a pool
// of cfg.Workers goroutines. Results come back in the order of paths. When
// ctx is cancelled the files not yet checked are left out and ctx.Err() is
// returned.
func CheckFiles(ctx context.Context, cfg *config.Config, paths []string, opts ...SessionOption) ([]CheckResult, BatchStats, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	base := NewSession(cfg, opts...)
	pool := newCheckPool(cfg, base.logger)
	if len(paths) == 0 {
		return []CheckResult{}, BatchStats{WorkerCount: 0}, nil
	}
	if err := pool.start(ctx, len(paths)); err != nil {
		return nil, BatchStats{}, err
	}
	defer pool.cancel()

	go func() {
		defer pool.close()
		for i, path := range paths {
			if err := pool.submit(checkJob{index: i, path: path}); err != nil {
				return
			}
		}
	}()

	slots := make([]*CheckResult, len(paths))
	for r := range pool.resultChan {
		result := r.result
		slots[r.index] = &result
	}

	results := make([]CheckResult, 0, len(paths))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	stats := pool.snapshot()
	base.logger.Info("batch check finished",
		"files", stats.TotalJobs, "failed", stats.FailedJobs,
		"workers", stats.WorkerCount, "elapsed", stats.TotalTime)

	if err := ctx.Err(); err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

// internal/app/notify/worker.go
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	intentstore "github.com/dalemusser/parishhub/internal/app/store/intents"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Worker drains the notification outbox on an interval. Each cycle
// claims pending intents one at a time, dispatches them, and settles
// each with its delivery summary.
type Worker struct {
	intents    *intentstore.Store
	engine     *Engine
	interval   time.Duration
	staleAfter time.Duration
	log        *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWorker creates a fan-out worker. staleAfter bounds how long a
// crashed worker can hold a claim before another worker takes it over.
func NewWorker(db *mongo.Database, engine *Engine, interval, staleAfter time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		intents:    intentstore.New(db),
		engine:     engine,
		interval:   interval,
		staleAfter: staleAfter,
		log:        logger,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the drain loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
	w.log.Info("notification worker started", zap.Duration("interval", w.interval))
}

// Stop signals the loop to exit and waits for it.
func (w *Worker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("notification worker stopped")
}

func (w *Worker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.interval)
			w.Drain(ctx)
			cancel()
		}
	}
}

// Drain processes claimed intents until the outbox is empty, the
// context expires, or a claim fails.
func (w *Worker) Drain(ctx context.Context) {
	for {
		processed, err := w.ProcessOne(ctx)
		if err != nil {
			w.log.Error("notification drain aborted", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}

// ProcessOne claims, dispatches, and settles a single intent. It
// reports false when no claimable intent remains. A dispatch failure
// leaves the intent claimed; the stale-claim window returns it to the
// pool for a later retry.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	intent, err := w.intents.ClaimNext(ctx, w.staleAfter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sum, err := w.engine.Dispatch(ctx, intent)
	if err != nil {
		w.log.Error("dispatch failed, intent left for retry",
			zap.String("intent_key", intent.Key),
			zap.Error(err))
		return true, nil
	}

	if err := w.intents.Settle(ctx, intent.ID, sum.Attempted, sum.Sent, sum.Failed); err != nil {
		return false, err
	}
	return true, nil
}

package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/jitter"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	stateUpdateTimeout   = 5 * time.Second
	listenReconnectDelay = 2 * time.Second
)

// OutboxWorker переносит события из outbox в Kafka. События забираются при старте,
// по таймеру и по уведомлению LISTEN/NOTIFY, если задана строка подключения к PostgreSQL.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	producer  usecase.MessageProducer
	logger    logger.Logger
	cfg       *cfg.OutboxCfg
	dbConnStr string

	wake         chan struct{}
	stop         chan struct{}
	stopOnce     sync.Once
	cancel       context.CancelFunc
	cancelListen context.CancelFunc
	wg           sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	producer usecase.MessageProducer,
	logger logger.Logger,
	cfg *cfg.OutboxCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:         repo,
		producer:     producer,
		logger:       logger,
		cfg:          cfg,
		dbConnStr:    dbConnStr,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		cancel:       func() {},
		cancelListen: func() {},
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	if w.dbConnStr == "" {
		return
	}

	var listenCtx context.Context
	listenCtx, w.cancelListen = context.WithCancel(ctx)

	// Запускаем слушатель уведомлений
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(listenCtx)
	}()
}

// Stop дожидается обработки текущего пакета. Если ctx истекает раньше, отправка прерывается,
// а незавершённые события возвращаются в очередь.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.cancelListen()
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.cancel()
		w.logger.Infof("Outbox worker stopped")
		return nil
	case <-ctx.Done():
		w.cancel()
		<-done
		w.logger.Warnf("Outbox worker forced to stop after timeout")
		return ctx.Err()
	}
}

// notify будит воркер. Уведомления, пришедшие до начала обработки, схлопываются в одно.
func (w *OutboxWorker) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
		case <-w.wake:
		}
	}
}

// drain обрабатывает пакеты, пока outbox не опустеет или отправка не начнёт падать.
func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Outbox batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize, w.cfg.StaleAfter)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	failed := 0
	for _, event := range events {
		err := w.processEvent(ctx, event)

		// Статус фиксируется даже после отмены ctx, иначе событие ждало бы StaleAfter.
		stateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stateUpdateTimeout)
		if err != nil {
			failed++
			w.release(stateCtx, event, err)
			cancel()
			continue
		}

		if err := w.repo.MarkAsProcessed(stateCtx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
		cancel()
	}

	return failed == 0 && len(events) == w.cfg.BatchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *domain.OutboxEvent) error {
	pubCtx, cancel := context.WithTimeout(ctx, w.cfg.PublishTimeout)
	defer cancel()

	if err := w.producer.WriteRawMessage(pubCtx, usecase.NewWriteRawMessageReq(event)); err != nil {
		return e.Wrap(event.EventID, err)
	}

	return nil
}

// release возвращает событие в очередь. Неповторяемая ошибка сразу переводит его в failed.
func (w *OutboxWorker) release(ctx context.Context, event *domain.OutboxEvent, cause error) {
	maxAttempts := w.cfg.MaxAttempts
	if !shouldRetry(cause) {
		maxAttempts = 1
	}

	w.logger.Warnf("Failed to publish %s for product %d (attempt %d): %v",
		event.EventType, event.ProductID, event.Attempts+1, cause)

	if err := w.repo.MarkAsRetry(ctx, event.ID, maxAttempts, cause.Error()); err != nil {
		w.logger.Warnf("release event %s failed: %v", event.EventID, err)
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	for {
		if err := w.listen(ctx); err != nil && ctx.Err() == nil {
			w.logger.Warnf("Outbox listener failed: %v. Reconnecting...", err)
		}

		if err := jitter.Sleep(ctx, jitter.Duration(listenReconnectDelay, jitter.DefaultJitter)); err != nil {
			return
		}
	}
}

func (w *OutboxWorker) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return e.Wrap("failed to connect for LISTEN", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+domain.OutboxNotifyChannel); err != nil {
		return e.Wrap("failed to LISTEN", err)
	}
	w.logger.Infof("Subscribed to '%s' channel", domain.OutboxNotifyChannel)

	// Пока соединения не было, уведомления могли потеряться
	w.notify()

	for {
		notif, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		if notif.Channel == domain.OutboxNotifyChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.notify()
		}
	}
}

// shouldRetry: таймаут отправки и сетевые сбои повторяются, остальные ошибки брокера — нет.
func shouldRetry(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	return isRetryableError(err)
}

package resource

import (
	"context"
	"time"

	"github.com/iudanet/livesync/internal/models"
)

// pollLoop — poll scheduler: немедленный fetch на старте, затем fetch
// на каждом тике интервала. Ошибки fetch записываются в статус и не
// останавливают цикл — транзиентные сбои сети переживаются следующим
// тиком, а не эскалацией.
func (c *Collection) pollLoop(ctx context.Context) {
	defer c.wg.Done()

	if err := c.fetchOnce(ctx); err != nil {
		c.logger.Warn("initial fetch failed", "error", err)
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.fetchOnce(ctx); err != nil {
				c.logger.Warn("poll fetch failed", "error", err)
			}
		}
	}
}

// Refresh запускает немедленный полный fetch и ждет его завершения.
// Если fetch уже выполняется, возвращает nil не дожидаясь: коллекция
// и так вот-вот станет свежей.
func (c *Collection) Refresh(ctx context.Context) error {
	return c.fetchOnce(ctx)
}

// fetchOnce выполняет один полный fetch коллекции. Перекрывающихся
// запросов не бывает: пока предыдущий fetch не разрешился, очередной
// тик пропускается.
func (c *Collection) fetchOnce(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.fetching {
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	c.mu.Unlock()

	entities, err := c.cfg.Remote.List(ctx, c.cfg.Filter)

	c.mu.Lock()
	c.fetching = false
	if c.closed {
		// Коллекция остановлена, пока fetch был в полете —
		// результат не применяется
		c.mu.Unlock()
		return err
	}
	if err == nil {
		c.applyIncomingLocked(models.ReplaceMutation(entities), sourcePoll)
	}
	c.mu.Unlock()

	c.finishFetch(err, time.Now())
	return err
}

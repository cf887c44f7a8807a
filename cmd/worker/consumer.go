package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/restaurant-hours/backend/internal/ingest"
)

var errDeliveriesClosed = errors.New("delivery channel closed")

type invalidator interface {
	Invalidate(ctx context.Context) error
}

type reporter interface {
	SendIngestReport(ctx context.Context, to, batchID string, mode ingest.Mode, summary ingest.Summary) error
}

type consumer struct {
	ingester    *ingest.Ingester
	cache       invalidator // 可以为 nil
	sender      reporter    // 可以为 nil
	mailTimeout time.Duration
	logger      *slog.Logger
}

// run 在 ctx 取消时返回 nil，在投递通道被关闭时返回 errDeliveriesClosed
func (c *consumer) run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *consumer) handle(ctx context.Context, msg amqp.Delivery) {
	batch, err := ingest.DecodeMessage(msg.Body)
	if err != nil {
		// 格式错误的消息重试也没有意义，直接丢弃
		c.logger.Error("无法解析导入消息", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	c.logger.Info("收到导入批次", "batchID", batch.BatchID, "rows", len(batch.Rows), "mode", batch.Mode)

	summary, err := c.ingester.ProcessMessage(ctx, batch)
	if err != nil {
		c.logger.Error("导入批次失败", "batchID", batch.BatchID, slog.String("error", err.Error()))
		_ = msg.Nack(false, !errors.Is(err, ingest.ErrUnknownMode))
		return
	}

	if c.cache != nil {
		if err := c.cache.Invalidate(ctx); err != nil {
			c.logger.Warn("无法清除营业餐厅缓存", slog.String("error", err.Error()))
		}
	}

	if len(summary.Failures) > 0 && batch.ReportTo != "" && c.sender != nil {
		mode, _ := ingest.ParseMode(batch.Mode)
		sendCtx, sendCancel := context.WithTimeout(ctx, c.mailTimeout)
		err := c.sender.SendIngestReport(sendCtx, batch.ReportTo, batch.BatchID, mode, summary)
		sendCancel()
		if err != nil {
			// 数据已经写入，不再重新投递
			c.logger.Error("无法发送导入报告", "batchID", batch.BatchID, slog.String("error", err.Error()))
		}
	}

	_ = msg.Ack(false)
}

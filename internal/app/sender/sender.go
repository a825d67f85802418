package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/starweaverbot/starweaver/internal/config"
	"github.com/starweaverbot/starweaver/internal/lib/rabbitmq"
	senderservice "github.com/starweaverbot/starweaver/internal/services/sender"
	"github.com/starweaverbot/starweaver/internal/telegram"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tgClient, err := telegram.New(cfg.Telegram, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	senderService := senderservice.NewSenderService(tgClient, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "reading.subscription.expiring", a.senderService.SendExpiryReminder)
	if err != nil {
		a.logger.Error("failed to start reading.subscription.expiring consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

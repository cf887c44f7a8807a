package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/restaurant-hours/backend/internal/cache"
	"github.com/restaurant-hours/backend/internal/config"
	"github.com/restaurant-hours/backend/internal/ingest"
	"github.com/restaurant-hours/backend/internal/metrics"
	"github.com/restaurant-hours/backend/internal/notify"
	"github.com/restaurant-hours/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.CreateTables(pingCtx); err != nil {
		logger.Error("无法创建数据表", "error", err)
		return
	}

	metrics.Register()
	ingester := ingest.New(repo, cfg.Ingest.Workers)

	/**********************************************
	 * 缓存与报告邮件，两者都是可选的
	 **********************************************/
	var openCache *cache.OpenRestaurants
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer rdb.Close()
		openCache = cache.NewOpenRestaurants(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	}

	var sender *notify.Sender
	if cfg.SMTPConfigured() {
		client, err := notify.NewClient(cfg)
		if err != nil {
			logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
			return
		}
		defer client.Close()
		sender = notify.NewSender(client, cfg.SMTP.From)
	} else {
		logger.Warn("未配置 SMTP，不会发送导入报告")
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue, // 队列名称
		true,               // 是否持久化
		false,              // 是否自动删除
		false,              // 是否独占
		false,              // 是否不等待
		nil,                // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 每个 worker 一次只处理一个批次
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置 qos", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，由 RabbitMQ 自动分配
		false,  // 是否自动确认
		false,  // 是否独占
		false,  // no-local，RabbitMQ 不支持，必须为 false
		false,  // 是否不等待
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	c := &consumer{
		ingester:    ingester,
		mailTimeout: time.Duration(cfg.SMTP.DialTimeout) * time.Second,
		logger:      logger,
	}
	if openCache != nil {
		c.cache = openCache
	}
	if sender != nil {
		c.sender = sender
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- c.run(ctx, msgs)
	}()

	logger.Info("等待导入批次 (CTRL+C 退出)")
	select {
	case <-sigChan:
		logger.Info("正在关闭 ingest worker")
		cancel()
		<-errChan
		logger.Info("ingest worker 已停止")
	case err := <-errChan:
		// 连接断开后不再有消息，退出让进程管理器重启
		logger.Error("消费者已退出", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

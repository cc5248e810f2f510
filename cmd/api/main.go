package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/config"
	"Buzz_Board/internal/pkg"
	"Buzz_Board/internal/repository/mysql"
	"Buzz_Board/internal/repository/redis"
	"Buzz_Board/internal/router"
	"Buzz_Board/internal/service"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	log, err := pkg.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err = run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	db, err := mysql.Open(cfg.MySQL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// 自动建表（开发阶段 OK）
	if cfg.MySQL.AutoMigrate {
		if err = mysql.Migrate(db); err != nil {
			return err
		}
	}

	// 连接redis
	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	metrics := pkg.NewMetrics()

	var mailer pkg.Mailer
	if cfg.SMTP.Enabled() {
		mailer = pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	sender := service.LogSender(log)
	if cfg.Kafka.Enabled() {
		producer, perr := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if perr != nil {
			return perr
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayer := service.NewEventRelayer(db, sender, cfg.Kafka.BatchSize, cfg.Kafka.RelayInterval, metrics, log)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relayer.Run(ctx)
	}()

	r := router.InitRouter(router.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Log:     log,
		Metrics: metrics,
		Mailer:  mailer,
	})
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if serr := srv.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		stop()
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error("http shutdown failed", zap.Error(serr))
	}
	<-relayDone
	return err
}

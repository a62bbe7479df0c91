package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/services/dashboard/app"
	"github.com/LeonardoBeccarini/sensor-dashboard/pkg/dedup"
	"github.com/LeonardoBeccarini/sensor-dashboard/pkg/rabbitmq"
)

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func main() {
	cfg := loadConfig()

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	policy, err := cfg.Validate()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Metrics ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := app.NewMetrics(reg)

	// === MQTT snapshots (optional) ===
	var renderers []app.RenderFunc
	if cfg.MQTTHost != "" {
		client, err := rabbitmq.NewRabbitMQConn(ctx, &rabbitmq.RabbitMQConfig{
			Host:     cfg.MQTTHost,
			Port:     cfg.MQTTPort,
			User:     cfg.MQTTUser,
			Password: cfg.MQTTPassword,
			ClientID: cfg.MQTTClientID,
		}, logger)
		if err != nil {
			// snapshots are a side channel; the dashboard runs without them
			logger.Error("mqtt unavailable, snapshots disabled", zap.Error(err))
		} else {
			pub := rabbitmq.NewPublisher(client, cfg.SnapshotTopic, true)
			snap := app.NewSnapshotPublisher(pub, dedup.New(cfg.SnapshotTTL, 64), logger)
			renderers = append(renderers, snap.Publish)
		}
	}

	// === gRPC health ===
	hs := health.NewServer()
	var grpcServer *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			logger.Fatal("grpc listen failed", zap.String("port", cfg.GRPCPort), zap.Error(err))
		}
		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, hs)
		go func() {
			logger.Info("grpc health listening", zap.String("addr", lis.Addr().String()))
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("grpc serve error", zap.Error(err))
			}
		}()
	}

	// === Dashboard ===
	dash := app.NewDashboard(app.Config{
		Title:           cfg.Title,
		GraphQLURL:      cfg.GraphQLURL,
		FetchTimeout:    cfg.FetchTimeout,
		AlertPolicy:     policy,
		BreakerFailures: cfg.CBFails,
		BreakerOpenFor:  cfg.CBOpen,
		BreakerInterval: cfg.CBInterval,
		Logger:          logger,
		Metrics:         metrics,
		Health:          hs,
		Renderers:       renderers,
	})
	if err := dash.Start(ctx); err != nil {
		logger.Fatal("dashboard start failed", zap.Error(err))
	}

	// === HTTP ===
	h := app.NewHandler(dash, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Routes(h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("dashboard listening", zap.String("addr", srv.Addr), zap.String("graphql", cfg.GraphQLURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	// SIGHUP remounts the view
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for done := false; !done; {
		select {
		case <-hup:
			if _, err := dash.Remount(); err != nil {
				logger.Error("remount failed", zap.Error(err))
			}
		case <-ctx.Done():
			done = true
		}
	}
	logger.Info("shutting down")

	dash.Close()
	hs.Shutdown()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}

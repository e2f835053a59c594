// Package main runs the adherence MCP server over stdio, for local MCP clients.
// The same tools are mounted on the service at /mcp over streamable HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	adherencemcp "github.com/2beens/adherence/internal/adherence/mcp"
	"github.com/2beens/adherence/internal/adherence/sample"
	"github.com/2beens/adherence/internal/adherence/service"
	"github.com/2beens/adherence/internal/config"
	"github.com/2beens/adherence/internal/db"
	"github.com/2beens/adherence/internal/logging"
	"github.com/2beens/adherence/internal/telemetry/metrics"
	"github.com/2beens/adherence/internal/tracker"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetLevel(logging.GetLevel(cfg.LogLevel))

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("ADHERENCE_DB_PASS"),
		DBName:     cfg.PostgresDBName,
		SSLMode:    cfg.PostgresSSLMode,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	metricsManager := metrics.NewManager("adherence", "mcp_stdio", prometheus.NewRegistry())
	opts := []service.Option{
		service.WithCache(service.NewCache(
			cfg.CacheSizeMB,
			cfg.CacheExpireSeconds,
			nil,
			time.Duration(cfg.RedisCacheTTLSeconds)*time.Second,
			metricsManager,
		)),
		service.WithMaxRangeDays(cfg.MaxRangeDays),
	}
	if cfg.SampleFallback {
		opts = append(opts, service.WithSampleFallback(sample.NewGenerator(cfg.SampleSeed)))
	}
	svc := service.NewService(tracker.NewRepo(dbPool), cfg.Weights, metricsManager, opts...)

	if err := server.ServeStdio(adherencemcp.NewServer(svc, metricsManager)); err != nil {
		log.Fatal(err)
	}
}

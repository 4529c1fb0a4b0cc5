package mongodb

import (
	"context"
	"credit-report-engine/internal/config"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func NewClient(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is empty in configuration")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database name is empty in configuration")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("credit-report-engine").
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute)

	logger.Info("Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Error("Failed to ping MongoDB", "error", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo on connect: %w", err)
	}

	logger.Info("Successfully connected to MongoDB.", "db", cfg.Database)
	return client, nil
}

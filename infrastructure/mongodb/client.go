package mongodb

import (
	"context"
	"fmt"
	"taskhub/pkg/logger"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionTasks    = "tasks"
	collectionProjects = "projects"
	collectionUsers    = "users"
	collectionActivity = "activity_logs"
)

type ClientConfig struct {
	URI      string // mongodb://localhost:27017
	Database string
}

// Client owns the driver connection and the taskhub database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewClient(cfg ClientConfig) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetAppName("taskhub"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	c := &Client{
		client: client,
		db:     client.Database(cfg.Database),
	}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB connected", "database", cfg.Database)
	return c, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collectionTasks: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "parent_id", Value: 1}}},
			{Keys: bson.D{{Key: "due_date", Value: 1}}},
		},
		collectionProjects: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "sort_order", Value: 1}}},
		},
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionActivity: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := c.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.client.Disconnect(ctx); err != nil {
		return err
	}
	logger.Info("MongoDB connection closed")
	return nil
}

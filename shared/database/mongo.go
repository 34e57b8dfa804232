// Package database owns the process-wide store clients. Clients are created
// explicitly by the bootstrap and injected; nothing here is a package global.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

// MongoConfig holds connection settings for MongoDB.
type MongoConfig struct {
	URI                    string        `env:"MONGO_URI,required,notEmpty"`
	Database               string        `env:"MONGO_DATABASE"                 envDefault:"job_portal"`
	ConnectTimeout         time.Duration `env:"MONGO_CONNECT_TIMEOUT"          envDefault:"10s"`
	ServerSelectionTimeout time.Duration `env:"MONGO_SERVER_SELECTION_TIMEOUT" envDefault:"5s"`
	OperationTimeout       time.Duration `env:"MONGO_OPERATION_TIMEOUT"        envDefault:"45s"`
}

type dialFunc func(ctx context.Context) (*mongo.Client, error)

// MongoConnector lazily opens a single MongoDB client. Concurrent callers
// during cold start share one in-flight connection attempt; a failed attempt
// is not cached, so the next caller retries.
type MongoConnector struct {
	cfg   MongoConfig
	dial  dialFunc
	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
}

// NewMongoConnector creates a connector for the given configuration.
func NewMongoConnector(cfg MongoConfig) *MongoConnector {
	c := &MongoConnector{cfg: cfg}
	c.dial = c.dialMongo
	return c
}

// Client returns the shared client, connecting on first use.
func (c *MongoConnector) Client(ctx context.Context) (*mongo.Client, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	v, err, _ := c.group.Do("connect", func() (any, error) {
		c.mu.RLock()
		existing := c.client
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		client, err := c.dial(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()

		return client, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*mongo.Client), nil
}

// Database returns the configured database handle, connecting on first use.
func (c *MongoConnector) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.cfg.Database), nil
}

// Disconnect closes the client if one was opened.
func (c *MongoConnector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (c *MongoConnector) dialMongo(ctx context.Context) (*mongo.Client, error) {
	if c.cfg.URI == "" {
		return nil, errors.New("missing MONGO_URI")
	}

	opts := options.Client().
		ApplyURI(c.cfg.URI).
		SetConnectTimeout(c.cfg.ConnectTimeout).
		SetServerSelectionTimeout(c.cfg.ServerSelectionTimeout).
		SetTimeout(c.cfg.OperationTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return client, nil
}

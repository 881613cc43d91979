// Package mongo stores the admin user registry and the audit log in MongoDB.
package mongo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultPoolSize = 10
	defaultAppName  = "blog-admin"
)

// Config describes the deployment holding the registry document.
type Config struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
	Timeout     time.Duration
}

// Connect dials MongoDB and pings the primary. The registry is rewritten as
// one document, so writes wait for majority acknowledgement and reads go to
// the primary.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, errors.New("mongo connect: empty URI")
	}
	timeout := cmp.Or(cfg.Timeout, defaultTimeout)

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cmp.Or(cfg.AppName, defaultAppName)).
		SetMaxPoolSize(cmp.Or(cfg.MaxPoolSize, defaultPoolSize)).
		SetServerSelectionTimeout(timeout).
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}

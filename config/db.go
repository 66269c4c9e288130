package config

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens the client and verifies the deployment is reachable
// before the router starts taking traffic.
func ConnectMongo(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, goerr.Wrap(err, "failed to ping mongodb")
	}
	return client.Database(cfg.MongoDatabase), nil
}

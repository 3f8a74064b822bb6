package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Database struct {
	cli       *mongo.Client
	items     *mongo.Collection
	libraries *mongo.Collection
}

const databaseTimeout = 40 * time.Second

// Connect creates database connection
func Connect(uri string) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), databaseTimeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}

	if err = cli.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}

	db := &Database{
		cli:       cli,
		items:     cli.Database("virtual-library").Collection("items"),
		libraries: cli.Database("virtual-library").Collection("libraries"),
	}

	return db, nil
}

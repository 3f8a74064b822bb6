package db

import (
	"context"
	"errors"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetLibraryOptions loads per-library settings, defaults if never stored
func (d *Database) GetLibraryOptions(ctx context.Context, libraryID string) (*model.LibraryOptions, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	result := d.libraries.FindOne(ctx, bson.D{{Key: "_id", Value: libraryID}})
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return model.DefaultLibraryOptions(libraryID), nil
	}
	if result.Err() != nil {
		return nil, result.Err()
	}

	opts := model.LibraryOptions{}
	if err := result.Decode(&opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// SetLibraryOptions stores per-library settings
func (d *Database) SetLibraryOptions(ctx context.Context, opts *model.LibraryOptions) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	replaceOpts := options.Replace().SetUpsert(true)
	filter := bson.D{{Key: "_id", Value: opts.ID}}

	_, err := d.libraries.ReplaceOne(ctx, filter, opts, replaceOpts)
	return err
}

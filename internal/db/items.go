package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"go-micro.dev/v4/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateItem inserts an item or replaces an existing one with the same ID
func (d *Database) CreateItem(ctx context.Context, item *model.Item) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	filter := bson.D{{Key: "_id", Value: item.ID}}

	if _, err := d.items.ReplaceOne(ctx, filter, item, opts); err != nil {
		return fmt.Errorf("store item failed: %w", err)
	}
	return nil
}

// DeleteItem removes an item from the tree. With deleteFiles the backing
// media file is removed from the disk too; failures to unlink are logged and
// do not prevent the item deletion.
func (d *Database) DeleteItem(ctx context.Context, id model.ID, deleteFiles bool) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	if deleteFiles {
		item, err := d.GetItem(ctx, id)
		if err != nil {
			return err
		}
		if item != nil && item.Path != "" {
			if err = os.Remove(item.Path); err != nil && !os.IsNotExist(err) {
				logger.Warnf("Remove backing file of %s failed: %s", id, err)
			}
		}
	}

	_, err := d.items.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

// GetItem loads a single item, nil if absent
func (d *Database) GetItem(ctx context.Context, id model.ID) (*model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	result := d.items.FindOne(ctx, bson.D{{Key: "_id", Value: id}})
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}
	if result.Err() != nil {
		return nil, result.Err()
	}

	item := model.Item{}
	if err := result.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// QueryItems returns all items matching the filter
func (d *Database) QueryItems(ctx context.Context, f model.ItemFilter) ([]*model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	filter := bson.D{}
	if f.Kind != nil {
		filter = append(filter, bson.E{Key: "kind", Value: int(*f.Kind)})
	}
	if f.ParentID != nil {
		filter = append(filter, bson.E{Key: "parentid", Value: *f.ParentID})
	}
	if f.SeriesID != nil {
		filter = append(filter, bson.E{Key: "seriesid", Value: *f.SeriesID})
	}
	if f.Season != nil {
		filter = append(filter, bson.E{Key: "season", Value: *f.Season})
	}
	if f.Virtual != nil {
		filter = append(filter, bson.E{Key: "virtual", Value: *f.Virtual})
	}

	opts := options.Find().SetSort(bson.D{{Key: "season", Value: 1}, {Key: "episode", Value: 1}})
	cur, err := d.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var results []*model.Item
	if err = cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchSeries returns every series item of the library
func (d *Database) SearchSeries(ctx context.Context) ([]*model.Item, error) {
	kind := model.KindSeries
	return d.QueryItems(ctx, model.ItemFilter{Kind: &kind})
}

// SetSeriesRemoteID binds a local series item to a remote catalog ID
func (d *Database) SetSeriesRemoteID(ctx context.Context, id model.ID, seriesID int64) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "seriesid", Value: seriesID}}}}
	_, err := d.items.UpdateOne(ctx, filter, update)
	return err
}

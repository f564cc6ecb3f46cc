// Package mongodb implements the entity repositories against a MongoDB
// document store. Set merges use the store's atomic $addToSet primitive;
// population is done with batched $in lookups at read time and never mutates
// the stored references.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/shule/core"
)

// Collection names.
const (
	schoolCollection  = "school"
	classCollection   = "class"
	studentCollection = "student"
	userCollection    = "users"
)

// Open connects to the configured MongoDB deployment and returns a handle on
// the app database.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, conf.Database.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = ping(ctx, client); err != nil {
		return nil, err
	}
	return client.Database(conf.Database.Name), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(err, "DB ping timeout")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// addToSet union-merges values into a set field of a single document.
// The operation is a single atomic update expression: re-adding existing
// members is a no-op and concurrent adders converge to the union.
func addToSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field string, values []primitive.ObjectID) error {
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{field: bson.M{"$each": values}}},
	)
	return errors.Wrapf(err, "merging into %s.%s", coll.Name(), field)
}

// findByIDs fetches the referenced documents of a population batch and
// decodes them into results (a pointer to a slice).
func findByIDs(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID, results interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return errors.Wrapf(err, "querying %s by ids", coll.Name())
	}
	return errors.Wrapf(cur.All(ctx, results), "decoding %s", coll.Name())
}

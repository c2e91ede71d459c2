package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gather/server/internal/models"
)

// MongoWorkRepository implements WorkRepo on MongoDB
type MongoWorkRepository struct {
	coll *mongo.Collection
}

// NewMongoWorkRepository creates a new MongoWorkRepository
func NewMongoWorkRepository(db *mongo.Database) *MongoWorkRepository {
	return &MongoWorkRepository{coll: db.Collection(mongoWorks)}
}

func (r *MongoWorkRepository) Create(ctx context.Context, work *models.Work) error {
	_, err := r.coll.InsertOne(ctx, work)
	return translateError(err)
}

func (r *MongoWorkRepository) Upsert(ctx context.Context, work *models.Work) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": work.ID}, work, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoWorkRepository) GetByID(ctx context.Context, id string) (*models.Work, error) {
	return findOne[models.Work](ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoWorkRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Work, error) {
	if len(ids) == 0 {
		return []*models.Work{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Work](ctx, cur)
}

func (r *MongoWorkRepository) Find(ctx context.Context, filter models.WorkFilter) ([]*models.Work, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if genres := models.DedupeIDs(filter.Genres); len(genres) > 0 {
		query["genre"] = bson.M{"$all": genres}
	}
	published := bson.M{}
	if filter.PublishedFrom != nil {
		published["$gte"] = filter.PublishedFrom.UTC()
	}
	if filter.PublishedBefore != nil {
		published["$lt"] = filter.PublishedBefore.UTC()
	}
	if len(published) > 0 {
		query["publishedAt"] = published
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"author": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "publishedAt", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Work](ctx, cur)
}

func (r *MongoWorkRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gather/server/internal/models"
)

// MongoCollectionRepository implements CollectionRepo on MongoDB. The works
// list is embedded in the collection document.
type MongoCollectionRepository struct {
	coll *mongo.Collection
}

// NewMongoCollectionRepository creates a new MongoCollectionRepository
func NewMongoCollectionRepository(db *mongo.Database) *MongoCollectionRepository {
	return &MongoCollectionRepository{coll: db.Collection(mongoCollections)}
}

func (r *MongoCollectionRepository) Create(ctx context.Context, c *models.Collection) error {
	_, err := r.coll.InsertOne(ctx, c)
	return translateError(err)
}

func (r *MongoCollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	return withWorks(findOne[models.Collection](ctx, r.coll, bson.M{"_id": id}))
}

func (r *MongoCollectionRepository) GetByOwnerAndName(ctx context.Context, userID, name string) (*models.Collection, error) {
	return withWorks(findOne[models.Collection](ctx, r.coll, bson.M{"userId": userID, "name": name}))
}

func (r *MongoCollectionRepository) GetAllForUser(ctx context.Context, userID string) ([]*models.Collection, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *MongoCollectionRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Collection, error) {
	if len(ids) == 0 {
		return []*models.Collection{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoCollectionRepository) GetPublic(ctx context.Context) ([]*models.Collection, error) {
	return r.find(ctx, bson.M{"visibility": models.VisibilityPublic})
}

func (r *MongoCollectionRepository) GetAll(ctx context.Context) ([]*models.Collection, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoCollectionRepository) find(ctx context.Context, filter bson.M) ([]*models.Collection, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	collections, err := decodeAll[models.Collection](ctx, cur)
	if err != nil {
		return nil, err
	}
	for _, c := range collections {
		if c.Works == nil {
			c.Works = []string{}
		}
	}
	return collections, nil
}

func (r *MongoCollectionRepository) Update(ctx context.Context, c *models.Collection) error {
	update := bson.M{"$set": bson.M{
		"name":       c.Name,
		"type":       c.Type,
		"visibility": c.Visibility,
		"works":      c.Works,
		"updatedAt":  c.UpdatedAt,
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	return translateError(err)
}

func (r *MongoCollectionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func withWorks(c *models.Collection, err error) (*models.Collection, error) {
	if c != nil && c.Works == nil {
		c.Works = []string{}
	}
	return c, err
}

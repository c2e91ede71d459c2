package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gather/server/internal/models"
)

// MongoShareRepository implements ShareRepo on MongoDB
type MongoShareRepository struct {
	coll *mongo.Collection
}

// NewMongoShareRepository creates a new MongoShareRepository
func NewMongoShareRepository(db *mongo.Database) *MongoShareRepository {
	return &MongoShareRepository{coll: db.Collection(mongoShares)}
}

func (r *MongoShareRepository) Create(ctx context.Context, s *models.Share) error {
	_, err := r.coll.InsertOne(ctx, s)
	return translateError(err)
}

func (r *MongoShareRepository) GetByID(ctx context.Context, id string) (*models.Share, error) {
	return findOne[models.Share](ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoShareRepository) GetByGuest(ctx context.Context, guestID string) ([]*models.Share, error) {
	return r.find(ctx, bson.M{"guestId": guestID})
}

func (r *MongoShareRepository) GetByCollection(ctx context.Context, collectionID string) ([]*models.Share, error) {
	return r.find(ctx, bson.M{"collectionId": collectionID})
}

func (r *MongoShareRepository) GetAccepted(ctx context.Context, collectionID, guestID string) (*models.Share, error) {
	filter := bson.M{"collectionId": collectionID, "guestId": guestID, "status": models.ShareAccepted}
	return findOne[models.Share](ctx, r.coll, filter, options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
}

func (r *MongoShareRepository) find(ctx context.Context, filter bson.M) ([]*models.Share, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Share](ctx, cur)
}

func (r *MongoShareRepository) UpdateStatus(ctx context.Context, id string, status models.ShareStatus, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status, "updatedAt": at.UTC()}})
	return err
}

func (r *MongoShareRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoShareRepository) DeleteByCollection(ctx context.Context, collectionID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"collectionId": collectionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

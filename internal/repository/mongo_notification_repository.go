package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gather/server/internal/models"
)

// MongoNotificationRepository implements NotificationRepo on MongoDB
type MongoNotificationRepository struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{coll: db.Collection(mongoNotifications)}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.coll.InsertOne(ctx, n)
	return translateError(err)
}

func (r *MongoNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return findOne[models.Notification](ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoNotificationRepository) GetForUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["readAt"] = nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Notification](ctx, cur)
}

func (r *MongoNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"userId": userID, "readAt": nil})
}

func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	_, err := r.markRead(ctx, bson.M{"_id": id, "readAt": nil}, at)
	return err
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	return r.markRead(ctx, bson.M{"userId": userID, "readAt": nil}, at)
}

func (r *MongoNotificationRepository) MarkReadByShare(ctx context.Context, shareID string, at time.Time) (int64, error) {
	return r.markRead(ctx, bson.M{"shareId": shareID, "readAt": nil}, at)
}

func (r *MongoNotificationRepository) markRead(ctx context.Context, filter bson.M, at time.Time) (int64, error) {
	at = at.UTC()
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"readAt": at, "updatedAt": at}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoNotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoNotificationRepository) DeleteByShare(ctx context.Context, shareID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"shareId": shareID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

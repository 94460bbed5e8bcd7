package bookingRepo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
//
// The compound index over (psychologistId, slotDate, slotStartTime,
// slotEndTime) is unique but partial: it only covers documents with
// active:true, so cancelled bookings release the window and a second
// concurrent writer for the same live window fails atomically at insert.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	windowOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"active": true})
	windowIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "psychologistId", Value: 1},
			{Key: "slotDate", Value: 1},
			{Key: "slotStartTime", Value: 1},
			{Key: "slotEndTime", Value: 1},
		},
		Options: windowOpts,
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "psychologistId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "razorpayOrderId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		windowIdx,
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

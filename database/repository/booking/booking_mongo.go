package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"solace/database"
	"solace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new BookingRepository backed by the
// "bookings" collection and ensures its indexes.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("booking repo: %v", err))
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.UpdatedAt = time.Now().UTC()
	filter := bson.M{"id": booking.ID}
	update := bson.M{"$set": booking}
	result, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", booking.ID)
	}
	return nil
}

func (r *MongoBookingRepo) FindActiveByWindow(ctx context.Context, psychologistID, date, start, end, excludeID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"psychologistId": psychologistID,
		"slotDate":       date,
		"slotStartTime":  start,
		"slotEndTime":    end,
		"active":         true,
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	var booking models.Booking
	if err := r.coll.FindOne(ctxWithTimeout, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query window conflicts: %w", err)
	}
	return &booking, nil
}

// ConfirmPayment applies the transition with a single guarded update so a
// retried verification call cannot re-apply it (and therefore cannot
// double-increment the psychologist's session counter upstream).
func (r *MongoBookingRepo) ConfirmPayment(ctx context.Context, bookingID, paymentID, signature string) (*models.Booking, bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": bookingID, "status": models.BookingStatusPending}
	update := bson.M{"$set": bson.M{
		"status":            models.BookingStatusConfirmed,
		"paymentStatus":     models.PaymentStatusPaid,
		"razorpayPaymentId": paymentID,
		"razorpaySignature": signature,
		"updatedAt":         now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctxWithTimeout, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, fmt.Errorf("failed to confirm payment for booking %s: %w", bookingID, err)
	}

	// Not pending; fetch whatever state the booking is in.
	current, err := r.GetByID(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		return nil, false, fmt.Errorf("booking %s not found", bookingID)
	}
	return current, false, nil
}

func (r *MongoBookingRepo) MarkPaymentFailed(ctx context.Context, bookingID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentStatusFailed,
		"updatedAt":     time.Now().UTC(),
	}}
	result, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": bookingID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed for booking %s: %w", bookingID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	return nil
}

func (r *MongoBookingRepo) listByField(ctx context.Context, field, value string, page, limit int64) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctxWithTimeout, bson.M{field: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	for cursor.Next(ctxWithTimeout) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string, page, limit int64) ([]models.Booking, error) {
	return r.listByField(ctx, "userId", userID, page, limit)
}

func (r *MongoBookingRepo) ListByPsychologist(ctx context.Context, psychologistID string, page, limit int64) ([]models.Booking, error) {
	return r.listByField(ctx, "psychologistId", psychologistID, page, limit)
}

func (r *MongoBookingRepo) CountActiveForSlot(ctx context.Context, psychologistID, date, start, end string) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"psychologistId": psychologistID,
		"slotStartTime":  start,
		"slotEndTime":    end,
		"active":         true,
	}
	if date != "" {
		filter["slotDate"] = date
	}
	count, err := r.coll.CountDocuments(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

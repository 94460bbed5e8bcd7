package psychologistRepo

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

// MongoPsychologistRepo implements PsychologistRepository using MongoDB.
type MongoPsychologistRepo struct {
	coll *mongo.Collection
}

// NewMongoPsychologistRepo creates a new PsychologistRepository backed by the
// "psychologists" collection and ensures its indexes.
func NewMongoPsychologistRepo() PsychologistRepository {
	repo := &MongoPsychologistRepo{coll: database.Collection("psychologists")}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("psychologist repo: %v", err))
	}
	return repo
}

func (r *MongoPsychologistRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPsychologistRepo) Create(ctx context.Context, p *models.Psychologist) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, p); err != nil {
		return fmt.Errorf("failed to create psychologist: %w", err)
	}
	return nil
}

func (r *MongoPsychologistRepo) Update(ctx context.Context, p *models.Psychologist) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": p.ID}, bson.M{"$set": p})
	if err != nil {
		return fmt.Errorf("failed to update psychologist %s: %w", p.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("psychologist %s not found", p.ID)
	}
	return nil
}

func (r *MongoPsychologistRepo) GetByID(ctx context.Context, id string) (*models.Psychologist, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Psychologist
	if err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch psychologist %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoPsychologistRepo) GetByEmail(ctx context.Context, email string) (*models.Psychologist, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Psychologist
	if err := r.coll.FindOne(ctxWithTimeout, bson.M{"email": email}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch psychologist by email: %w", err)
	}
	return &p, nil
}

func (r *MongoPsychologistRepo) AddScheduleSlots(ctx context.Context, id string, slots []models.ScheduleSlot) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"schedule": bson.M{"$each": slots}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to add schedule slots for %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("psychologist %s not found", id)
	}
	return nil
}

func (r *MongoPsychologistRepo) RemoveScheduleSlot(ctx context.Context, id, slotID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"schedule": bson.M{"id": slotID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to remove schedule slot %s: %w", slotID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("psychologist %s not found", id)
	}
	return nil
}

func (r *MongoPsychologistRepo) SetSlotAvailability(ctx context.Context, id, date, start, end string, available bool) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": id,
		"schedule": bson.M{"$elemMatch": bson.M{
			"date":      date,
			"startTime": start,
			"endTime":   end,
		}},
	}
	update := bson.M{"$set": bson.M{
		"schedule.$.isAvailable": available,
		"updatedAt":              time.Now().UTC(),
	}}
	result, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set slot availability for %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("schedule slot not found for psychologist %s", id)
	}
	return nil
}

func (r *MongoPsychologistRepo) IncrementTotalSessions(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"totalSessions": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to increment sessions for %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("psychologist %s not found", id)
	}
	return nil
}

package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/pkg/errors"
	mng "github.com/hireloop/interviewd/pkg/mongotools"
)

type mongoSlots struct {
	coll *mongo.Collection
}

func (m mongoSlots) InsertBatch(ctx context.Context, slots []models.InterviewSlot) ([]models.InterviewSlot, error) {
	docs := make([]any, 0, len(slots))
	for i := range slots {
		slots[i].ID = primitive.NewObjectID().Hex()
		docs = append(docs, slots[i])
	}

	_, err := m.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, errors.WrapFail(err, "insert slot batch")
	}

	return slots, nil
}

func (m mongoSlots) Find(ctx context.Context, id string) (*models.InterviewSlot, error) {
	r := m.coll.FindOne(ctx, mng.ID(id))
	err := r.Err()

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.WrapFail(err, "find slot by id")
	}

	var parsed models.InterviewSlot
	err = r.Decode(&parsed)
	if err != nil {
		return nil, errors.WrapFail(err, "decode slot")
	}

	return &parsed, nil
}

func (m mongoSlots) ListByProcess(ctx context.Context, processID string) ([]models.InterviewSlot, error) {
	c, err := m.coll.Find(
		ctx,
		mng.Field(models.SlotFieldProcessID, processID),
		options.Find().SetSort(bson.D{{Key: models.SlotFieldStartsAt, Value: 1}}),
	)
	if err != nil {
		return nil, errors.WrapFail(err, "find process slots")
	}

	slots, err := mng.DecodeAll[models.InterviewSlot](ctx, c)
	return slots, errors.WrapFail(err, "decode process slots")
}

func (m mongoSlots) CountByProcess(ctx context.Context, processID string) (int64, error) {
	n, err := m.coll.CountDocuments(ctx, mng.Field(models.SlotFieldProcessID, processID))
	return n, errors.WrapFail(err, "count process slots")
}

func (m mongoSlots) ListWithin(ctx context.Context, from, to int64) ([]models.InterviewSlot, error) {
	filter := bson.M{
		models.SlotFieldStartsAt: bson.M{"$lt": to},
		models.SlotFieldEndsAt:   bson.M{"$gt": from},
	}

	c, err := m.coll.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: models.SlotFieldStartsAt, Value: 1}}),
	)
	if err != nil {
		return nil, errors.WrapFail(err, "find slots in range")
	}

	slots, err := mng.DecodeAll[models.InterviewSlot](ctx, c)
	return slots, errors.WrapFail(err, "decode slots in range")
}

// SetBooked flips the booked flag only when it still holds the expected
// value, so two bookings racing for one slot resolve to exactly one
// winner regardless of interleaving.
func (m mongoSlots) SetBooked(ctx context.Context, id string, from, to bool) (bool, error) {
	filter := bson.M{
		"_id":                  id,
		models.SlotFieldBooked: from,
	}

	r, err := m.coll.UpdateOne(ctx, filter, mng.SetAll(mng.Field(models.SlotFieldBooked, to)))
	if err != nil {
		return false, errors.WrapFail(err, "update slot booked flag")
	}

	return r.ModifiedCount == 1, nil
}

func (m mongoSlots) Delete(ctx context.Context, id string, onlyUnbooked bool) (bool, error) {
	filter := bson.M{"_id": id}
	if onlyUnbooked {
		filter[models.SlotFieldBooked] = false
	}

	r, err := m.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, errors.WrapFail(err, "delete slot")
	}

	return r.DeletedCount == 1, nil
}

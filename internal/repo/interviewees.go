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

type mongoInterviewees struct {
	coll *mongo.Collection
}

func (m mongoInterviewees) Insert(ctx context.Context, item models.Interviewee) (*models.Interviewee, error) {
	item.ID = primitive.NewObjectID().Hex()
	item.Version = 1

	_, err := m.coll.InsertOne(ctx, item)

	if mongo.IsDuplicateKeyError(err) {
		return nil, errors.Wrap(models.ErrInvalidInput, "application already tracked in this process")
	}

	if err != nil {
		return nil, errors.WrapFail(err, "insert interviewee")
	}

	return &item, nil
}

func (m mongoInterviewees) Find(ctx context.Context, id string) (*models.Interviewee, error) {
	return m.findOne(ctx, mng.ID(id))
}

func (m mongoInterviewees) FindPair(ctx context.Context, processID, applicationID string) (*models.Interviewee, error) {
	return m.findOne(ctx, bson.M{
		models.IntervieweeFieldProcessID:     processID,
		models.IntervieweeFieldApplicationID: applicationID,
	})
}

func (m mongoInterviewees) ListByProcess(ctx context.Context, processID string) ([]models.Interviewee, error) {
	c, err := m.coll.Find(
		ctx,
		mng.Field(models.IntervieweeFieldProcessID, processID),
		options.Find().SetSort(bson.D{{Key: models.IntervieweeFieldAddedAt, Value: -1}}),
	)
	if err != nil {
		return nil, errors.WrapFail(err, "find process interviewees")
	}

	items, err := mng.DecodeAll[models.Interviewee](ctx, c)
	return items, errors.WrapFail(err, "decode process interviewees")
}

// SetSlot is the optimistic commit: the update matches only while the
// version read by the caller is still current, and every hit bumps the
// version. A miss means a concurrent lineage won.
func (m mongoInterviewees) SetSlot(ctx context.Context, id string, version int64, slotID *string) (bool, error) {
	update := bson.M{
		"$inc": bson.M{models.IntervieweeFieldVersion: 1},
	}

	if slotID != nil {
		update["$set"] = bson.M{models.IntervieweeFieldSlotID: *slotID}
	} else {
		update["$unset"] = bson.M{models.IntervieweeFieldSlotID: ""}
	}

	r, err := m.coll.UpdateOne(ctx, m.versioned(id, version), update)
	if err != nil {
		return false, errors.WrapFail(err, "update interviewee slot")
	}

	return r.ModifiedCount == 1, nil
}

func (m mongoInterviewees) SetAssessment(
	ctx context.Context,
	id string,
	version int64,
	rating *models.AssessmentRating,
	notes *string,
) (bool, error) {
	set := bson.M{}
	if rating != nil {
		set[models.IntervieweeFieldRating] = *rating
	}
	if notes != nil {
		set[models.IntervieweeFieldNotes] = *notes
	}

	r, err := m.coll.UpdateOne(ctx, m.versioned(id, version), bson.M{
		"$set": set,
		"$inc": bson.M{models.IntervieweeFieldVersion: 1},
	})
	if err != nil {
		return false, errors.WrapFail(err, "update interviewee assessment")
	}

	return r.ModifiedCount == 1, nil
}

func (m mongoInterviewees) MarkInvited(ctx context.Context, ids []string, at int64) (int64, error) {
	r, err := m.coll.UpdateMany(
		ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{models.IntervieweeFieldInvitedAt: at}},
	)
	if err != nil {
		return 0, errors.WrapFail(err, "mark interviewees invited")
	}

	return r.ModifiedCount, nil
}

func (m mongoInterviewees) Delete(ctx context.Context, id string) (bool, error) {
	r, err := m.coll.DeleteOne(ctx, mng.ID(id))
	if err != nil {
		return false, errors.WrapFail(err, "delete interviewee")
	}

	return r.DeletedCount == 1, nil
}

func (m mongoInterviewees) findOne(ctx context.Context, filter any) (*models.Interviewee, error) {
	r := m.coll.FindOne(ctx, filter)
	err := r.Err()

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.WrapFail(err, "find interviewee")
	}

	var parsed models.Interviewee
	err = r.Decode(&parsed)
	if err != nil {
		return nil, errors.WrapFail(err, "decode interviewee")
	}

	return &parsed, nil
}

func (m mongoInterviewees) versioned(id string, version int64) bson.M {
	return bson.M{
		"_id":                           id,
		models.IntervieweeFieldVersion: version,
	}
}

package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/pkg/errors"
	mng "github.com/hireloop/interviewd/pkg/mongotools"
)

type mongoProcesses struct {
	coll *mongo.Collection
}

func (m mongoProcesses) Create(ctx context.Context, jobID string, now int64) (*models.InterviewProcess, error) {
	process := models.InterviewProcess{
		ID:        primitive.NewObjectID().Hex(),
		JobID:     jobID,
		CreatedAt: now,
	}

	_, err := m.coll.InsertOne(ctx, process)

	if mongo.IsDuplicateKeyError(err) {
		return nil, errors.Wrap(models.ErrInvalidInput, "job already has an interview process")
	}

	if err != nil {
		return nil, errors.WrapFail(err, "insert process")
	}

	return &process, nil
}

func (m mongoProcesses) Find(ctx context.Context, id string) (*models.InterviewProcess, error) {
	return m.findOne(ctx, mng.ID(id))
}

func (m mongoProcesses) FindByJob(ctx context.Context, jobID string) (*models.InterviewProcess, error) {
	return m.findOne(ctx, mng.Field(models.ProcessFieldJobID, jobID))
}

func (m mongoProcesses) findOne(ctx context.Context, filter any) (*models.InterviewProcess, error) {
	r := m.coll.FindOne(ctx, filter)
	err := r.Err()

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.WrapFail(err, "find process")
	}

	var parsed models.InterviewProcess
	err = r.Decode(&parsed)
	if err != nil {
		return nil, errors.WrapFail(err, "decode process")
	}

	return &parsed, nil
}

package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/hireloop/interviewd/internal/models"
	"github.com/hireloop/interviewd/pkg/errors"
	"github.com/hireloop/interviewd/pkg/logger"
)

type Client interface {
	Processes() models.ProcessesRepo
	Slots() models.SlotsRepo
	Interviewees() models.IntervieweesRepo

	// RunTxn executes do inside one multi-document transaction. Any
	// error from do aborts the transaction; nothing of its writes
	// survives an abort.
	RunTxn(ctx context.Context, do func(ctx context.Context) error) error

	Close(ctx context.Context) error
}

func NewClient(ctx context.Context, cfg Config, log logger.Logger) (Client, error) {
	cfg.withDefaults()

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetTimeout(cfg.Timeout)

	if cfg.Auth.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.WrapFail(err, "connect to mongo db")
	}

	db := client.Database(cfg.Database)

	c := &mongoClient{
		c:            client,
		log:          log.With("mongo_client"),
		processes:    mongoProcesses{coll: db.Collection(cfg.Collections.Processes)},
		slots:        mongoSlots{coll: db.Collection(cfg.Collections.Slots)},
		interviewees: mongoInterviewees{coll: db.Collection(cfg.Collections.Interviewees)},
	}

	err = c.ensureIndexes(ctx)
	if err != nil {
		return nil, errors.WrapFail(err, "create indexes")
	}

	return c, nil
}

type mongoClient struct {
	c   *mongo.Client
	log logger.Logger

	processes    mongoProcesses
	slots        mongoSlots
	interviewees mongoInterviewees
}

func (m *mongoClient) Processes() models.ProcessesRepo {
	return m.processes
}

func (m *mongoClient) Slots() models.SlotsRepo {
	return m.slots
}

func (m *mongoClient) Interviewees() models.IntervieweesRepo {
	return m.interviewees
}

func (m *mongoClient) RunTxn(ctx context.Context, do func(ctx context.Context) error) error {
	session, err := m.c.StartSession()
	if err != nil {
		return errors.WrapFail(err, "start mongo session")
	}
	defer session.EndSession(ctx)

	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		err := sc.StartTransaction(options.Transaction().
			SetReadConcern(readconcern.Majority()).
			SetWriteConcern(writeconcern.Majority()),
		)
		if err != nil {
			return errors.WrapFail(err, "start transaction")
		}

		err = do(sc)
		if err != nil {
			abortErr := sc.AbortTransaction(sc)
			if abortErr != nil {
				m.log.Error(errors.WrapFail(abortErr, "abort transaction"))
			}
			return err
		}

		return errors.WrapFail(sc.CommitTransaction(sc), "commit transaction")
	})
}

func (m *mongoClient) Close(ctx context.Context) error {
	err := m.c.Disconnect(ctx)
	return errors.WrapFail(err, "close mongo db connection")
}

func (m *mongoClient) ensureIndexes(ctx context.Context) error {
	_, err := m.processes.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: models.ProcessFieldJobID, Value: 1}},
		Options: options.Index().SetName("one_process_per_job").SetUnique(true),
	})
	if err != nil {
		return errors.WrapFail(err, "index processes")
	}

	_, err = m.interviewees.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: models.IntervieweeFieldProcessID, Value: 1},
			{Key: models.IntervieweeFieldApplicationID, Value: 1},
		},
		Options: options.Index().SetName("one_track_per_pair").SetUnique(true),
	})
	if err != nil {
		return errors.WrapFail(err, "index interviewees")
	}

	_, err = m.slots.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: models.SlotFieldProcessID, Value: 1},
			{Key: models.SlotFieldStartsAt, Value: 1},
		},
		Options: options.Index().SetName("slots_by_start"),
	})
	return errors.WrapFail(err, "index slots")
}

package workorder

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/program-framework/program-backend/pkg/db"
)

const (
	COLLECTION_NAME_WORK_ORDERS     = "workOrders"
	COLLECTION_NAME_OUTGOING_EMAILS = "outgoingEmails"
	COLLECTION_NAME_SENT_EMAILS     = "sentEmails"
)

type WorkOrderDBService struct {
	DBClient *mongo.Client
	timeout  int
	DBName   string
}

func NewWorkOrderDBService(configs db.DBConfig) (*WorkOrderDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()
	if err != nil {
		return nil, err
	}

	dbService := &WorkOrderDBService{
		DBClient: dbClient,
		timeout:  configs.Timeout,
		DBName:   configs.DBName,
	}

	if err := dbService.ensureIndexes(); err != nil {
		slog.Error("Error ensuring indexes for work order DB", slog.String("error", err.Error()))
	}

	return dbService, nil
}

func (dbService *WorkOrderDBService) collectionWorkOrders() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_WORK_ORDERS)
}

func (dbService *WorkOrderDBService) collectionOutgoingEmails() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_OUTGOING_EMAILS)
}

func (dbService *WorkOrderDBService) collectionSentEmails() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_SENT_EMAILS)
}

func (dbService *WorkOrderDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *WorkOrderDBService) ensureIndexes() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionWorkOrders().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "eventCode", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "stage", Value: 1}, {Key: "locked", Value: 1}},
		},
	})
	if err != nil {
		slog.Error("Error creating index for work orders", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionOutgoingEmails().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "lastSendAttempt", Value: 1}, {Key: "highPrio", Value: -1}},
	})
	if err != nil {
		slog.Error("Error creating index for outgoing emails", slog.String("error", err.Error()))
	}
	return nil
}

package dashboard

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/program-framework/program-backend/pkg/db"
)

// collection names
const (
	COLLECTION_NAME_POOLS    = "pools"
	COLLECTION_NAME_EVENTS   = "events"
	COLLECTION_NAME_STUDENTS = "students"
	COLLECTION_NAME_PROMPTS  = "prompts"
)

type DashboardDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBName          string
}

func NewDashboardDBService(configs db.DBConfig) (*DashboardDBService, error) {
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

	dbService := &DashboardDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBName:          configs.DBName,
	}

	if err := dbService.ensureIndexes(); err != nil {
		slog.Error("Error ensuring indexes for dashboard DB", slog.String("error", err.Error()))
	}

	return dbService, nil
}

func (dbService *DashboardDBService) collectionPools() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_POOLS)
}

func (dbService *DashboardDBService) collectionEvents() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_EVENTS)
}

func (dbService *DashboardDBService) collectionStudents() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_STUDENTS)
}

func (dbService *DashboardDBService) collectionPrompts() *mongo.Collection {
	return dbService.DBClient.Database(dbService.DBName).Collection(COLLECTION_NAME_PROMPTS)
}

func (dbService *DashboardDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

// ListIndexes reports the indexes of every dashboard collection, for ops
// diagnostics.
func (dbService *DashboardDBService) ListIndexes() (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collections := map[string]*mongo.Collection{
		COLLECTION_NAME_POOLS:    dbService.collectionPools(),
		COLLECTION_NAME_EVENTS:   dbService.collectionEvents(),
		COLLECTION_NAME_STUDENTS: dbService.collectionStudents(),
		COLLECTION_NAME_PROMPTS:  dbService.collectionPrompts(),
	}

	result := map[string][]bson.M{}
	for name, collection := range collections {
		indexes, err := db.ListCollectionIndexes(ctx, collection)
		if err != nil {
			return nil, err
		}
		result[name] = indexes
	}
	return result, nil
}

func (dbService *DashboardDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for dashboard DB")

	err := dbService.createIndexForPoolsCollection()
	if err != nil {
		slog.Error("Error creating index for pools", slog.String("error", err.Error()))
	}

	err = dbService.createIndexForEventsCollection()
	if err != nil {
		slog.Error("Error creating index for events", slog.String("error", err.Error()))
	}

	err = dbService.createIndexForStudentsCollection()
	if err != nil {
		slog.Error("Error creating index for students", slog.String("error", err.Error()))
	}

	err = dbService.createIndexForPromptsCollection()
	if err != nil {
		slog.Error("Error creating index for prompts", slog.String("error", err.Error()))
	}

	return nil
}

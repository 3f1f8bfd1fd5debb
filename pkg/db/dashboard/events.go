package dashboard

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func (dbService *DashboardDBService) createIndexForEventsCollection() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionEvents().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "aid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
	return err
}

// GetAllEvents scans the full event set, cursor drained to completion.
func (dbService *DashboardDBService) GetAllEvents() ([]dashboardTypes.EventDefinition, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find()
	if dbService.noCursorTimeout {
		opts.SetNoCursorTimeout(true)
	}

	cursor, err := dbService.collectionEvents().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []dashboardTypes.EventDefinition{}
	for cursor.Next(ctx) {
		var event dashboardTypes.EventDefinition
		if err := cursor.Decode(&event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (dbService *DashboardDBService) GetEventByAID(aid string) (event dashboardTypes.EventDefinition, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	err = dbService.collectionEvents().FindOne(ctx, bson.M{"aid": aid}).Decode(&event)
	return event, err
}

func (dbService *DashboardDBService) SaveEvent(event dashboardTypes.EventDefinition) (dashboardTypes.EventDefinition, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	upsert := true
	rd := options.After
	opts := options.FindOneAndReplaceOptions{
		Upsert:         &upsert,
		ReturnDocument: &rd,
	}
	elem := dashboardTypes.EventDefinition{}
	err := dbService.collectionEvents().FindOneAndReplace(
		ctx, bson.M{"aid": event.AID}, event, &opts,
	).Decode(&elem)
	return elem, err
}

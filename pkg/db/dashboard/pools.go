package dashboard

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func (dbService *DashboardDBService) createIndexForPoolsCollection() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPools().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
	return err
}

// GetAllPools scans the full pool set. The cursor is drained before
// returning, so callers always evaluate on complete data.
func (dbService *DashboardDBService) GetAllPools() ([]dashboardTypes.Pool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find()
	if dbService.noCursorTimeout {
		opts.SetNoCursorTimeout(true)
	}

	cursor, err := dbService.collectionPools().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	pools := []dashboardTypes.Pool{}
	for cursor.Next(ctx) {
		var pool dashboardTypes.Pool
		if err := cursor.Decode(&pool); err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return pools, nil
}

func (dbService *DashboardDBService) SavePool(pool dashboardTypes.Pool) (dashboardTypes.Pool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	upsert := true
	rd := options.After
	opts := options.FindOneAndReplaceOptions{
		Upsert:         &upsert,
		ReturnDocument: &rd,
	}
	elem := dashboardTypes.Pool{}
	err := dbService.collectionPools().FindOneAndReplace(
		ctx, bson.M{"name": pool.Name}, pool, &opts,
	).Decode(&elem)
	return elem, err
}

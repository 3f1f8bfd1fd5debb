package dashboard

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/program-framework/program-backend/pkg/apihelpers"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func (dbService *DashboardDBService) createIndexForStudentsCollection() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionStudents()
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (dbService *DashboardDBService) GetStudentByPID(pid string) (student dashboardTypes.Student, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	err = dbService.collectionStudents().FindOne(ctx, bson.M{"pid": pid}).Decode(&student)
	return student, err
}

func (dbService *DashboardDBService) SaveStudent(student dashboardTypes.Student) (dashboardTypes.Student, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	student.ModifiedAt = time.Now().Unix()

	upsert := true
	rd := options.After
	opts := options.FindOneAndReplaceOptions{
		Upsert:         &upsert,
		ReturnDocument: &rd,
	}
	elem := dashboardTypes.Student{}
	err := dbService.collectionStudents().FindOneAndReplace(
		ctx, bson.M{"pid": student.PID}, student, &opts,
	).Decode(&elem)
	return elem, err
}

// InitProgramStateIfMissing lazily creates the per-event program state on the
// first dashboard visit for that event.
func (dbService *DashboardDBService) InitProgramStateIfMissing(pid string, aid string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"pid":             pid,
		"programs." + aid: bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"programs." + aid: dashboardTypes.ProgramState{
				OfferingHistory: map[string]dashboardTypes.OfferingRecord{},
				WhichRetreats:   map[string]bool{},
			},
			"modifiedAt": time.Now().Unix(),
		},
	}
	_, err := dbService.collectionStudents().UpdateOne(ctx, filter, update)
	return err
}

// RecordClick bumps the click counter for one program and stamps the time.
func (dbService *DashboardDBService) RecordClick(pid string, aid string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"programs." + aid + ".clickCount": 1},
		"$set": bson.M{
			"programs." + aid + ".clickTime": time.Now().Unix(),
			"modifiedAt":                     time.Now().Unix(),
		},
	}
	_, err := dbService.collectionStudents().UpdateOne(ctx, bson.M{"pid": pid}, update)
	return err
}

func (dbService *DashboardDBService) UpdateEmailPreferences(pid string, prefs map[string]bool) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"emailPreferences": prefs,
			"modifiedAt":       time.Now().Unix(),
		},
	}
	_, err := dbService.collectionStudents().UpdateOne(ctx, bson.M{"pid": pid}, update)
	return err
}

// UpdatePracticeCount sets one practice field (e.g. a mantra count).
func (dbService *DashboardDBService) UpdatePracticeCount(pid string, field string, value int64) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"practice." + field: value,
			"modifiedAt":        time.Now().Unix(),
		},
	}
	_, err := dbService.collectionStudents().UpdateOne(ctx, bson.M{"pid": pid}, update)
	return err
}

// GetAllStudents scans the student collection in batches, calling visit for
// each record. Used by the campaign runner; the cursor is drained to
// completion.
func (dbService *DashboardDBService) GetAllStudents(visit func(student dashboardTypes.Student) error) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find()
	if dbService.noCursorTimeout {
		opts.SetNoCursorTimeout(true)
	}

	cursor, err := dbService.collectionStudents().Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var student dashboardTypes.Student
		if err := cursor.Decode(&student); err != nil {
			return err
		}
		if err := visit(student); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// GetStudentsPaginated returns one page of students matching the query filter,
// together with the total match count.
func (dbService *DashboardDBService) GetStudentsPaginated(query apihelpers.PaginatedQuery) (students []dashboardTypes.Student, total int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionStudents()

	total, err = collection.CountDocuments(ctx, query.Filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((query.Page - 1) * query.Limit).
		SetLimit(query.Limit)
	if len(query.Sort) > 0 {
		opts.SetSort(query.Sort)
	}

	cursor, err := collection.Find(ctx, query.Filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	students = []dashboardTypes.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

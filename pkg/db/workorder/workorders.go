package workorder

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
)

var ErrWorkOrderLocked = errors.New("work order is locked by another worker")

func (dbService *WorkOrderDBService) CreateWorkOrder(wo messagingTypes.WorkOrder) (messagingTypes.WorkOrder, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if wo.ID == "" {
		wo.ID = uuid.NewString()
	}
	wo.Steps = messagingTypes.NewWorkOrderSteps()
	wo.Stage = messagingTypes.WORK_ORDER_STEP_COUNT
	wo.Locked = false
	wo.LockedBy = ""
	wo.CreatedAt = time.Now().Unix()
	wo.UpdatedAt = wo.CreatedAt

	_, err := dbService.collectionWorkOrders().InsertOne(ctx, wo)
	return wo, err
}

func (dbService *WorkOrderDBService) GetWorkOrderByID(id string) (wo messagingTypes.WorkOrder, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	err = dbService.collectionWorkOrders().FindOne(ctx, bson.M{"_id": id}).Decode(&wo)
	return wo, err
}

func (dbService *WorkOrderDBService) GetWorkOrdersForEvent(eventCode string) ([]messagingTypes.WorkOrder, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{}
	if eventCode != "" {
		filter["eventCode"] = eventCode
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := dbService.collectionWorkOrders().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workOrders := []messagingTypes.WorkOrder{}
	for cursor.Next(ctx) {
		var wo messagingTypes.WorkOrder
		if err := cursor.Decode(&wo); err != nil {
			return nil, err
		}
		workOrders = append(workOrders, wo)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return workOrders, nil
}

// GetClaimableWorkOrders lists unlocked work orders whose active step is
// still ready to run.
func (dbService *WorkOrderDBService) GetClaimableWorkOrders() ([]messagingTypes.WorkOrder, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"locked": false,
		"steps": bson.M{"$elemMatch": bson.M{
			"isActive": true,
			"status":   messagingTypes.WORK_ORDER_STEP_STATUS_READY,
		}},
	}
	cursor, err := dbService.collectionWorkOrders().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workOrders := []messagingTypes.WorkOrder{}
	for cursor.Next(ctx) {
		var wo messagingTypes.WorkOrder
		if err := cursor.Decode(&wo); err != nil {
			return nil, err
		}
		workOrders = append(workOrders, wo)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return workOrders, nil
}

// LockWorkOrder claims a work order for one worker. Returns
// ErrWorkOrderLocked if someone else holds it.
func (dbService *WorkOrderDBService) LockWorkOrder(id string, lockedBy string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"_id": id, "locked": false}
	update := bson.M{"$set": bson.M{
		"locked":    true,
		"lockedBy":  lockedBy,
		"updatedAt": time.Now().Unix(),
	}}
	res, err := dbService.collectionWorkOrders().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount < 1 {
		return ErrWorkOrderLocked
	}
	return nil
}

func (dbService *WorkOrderDBService) UnlockWorkOrder(id string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	update := bson.M{"$set": bson.M{
		"locked":    false,
		"lockedBy":  "",
		"updatedAt": time.Now().Unix(),
	}}
	_, err := dbService.collectionWorkOrders().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// UpdateWorkOrderStep sets the status and message of one named step.
func (dbService *WorkOrderDBService) UpdateWorkOrderStep(id string, stepName string, status string, message string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"_id": id, "steps.name": stepName}
	update := bson.M{"$set": bson.M{
		"steps.$.status":  status,
		"steps.$.message": message,
		"updatedAt":       time.Now().Unix(),
	}}
	res, err := dbService.collectionWorkOrders().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdvanceWorkOrderStage moves the active-step cursor from the current stage
// to the next one and updates the stage field.
func (dbService *WorkOrderDBService) AdvanceWorkOrderStage(id string, fromStep string, toStep string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"_id": id, "steps.name": fromStep}
	update := bson.M{"$set": bson.M{
		"steps.$.isActive": false,
		"updatedAt":        time.Now().Unix(),
	}}
	if _, err := dbService.collectionWorkOrders().UpdateOne(ctx, filter, update); err != nil {
		return err
	}

	filter = bson.M{"_id": id, "steps.name": toStep}
	update = bson.M{"$set": bson.M{
		"steps.$.isActive": true,
		"stage":            toStep,
		"updatedAt":        time.Now().Unix(),
	}}
	_, err := dbService.collectionWorkOrders().UpdateOne(ctx, filter, update)
	return err
}

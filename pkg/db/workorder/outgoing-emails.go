package workorder

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
)

func (dbService *WorkOrderDBService) AddToOutgoingEmails(email messagingTypes.OutgoingEmail) (messagingTypes.OutgoingEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if email.AddedAt <= 0 {
		email.AddedAt = time.Now().Unix()
	}

	res, err := dbService.collectionOutgoingEmails().InsertOne(ctx, email)
	if err != nil {
		return email, err
	}
	email.ID = res.InsertedID.(primitive.ObjectID)
	return email, nil
}

// GetOutgoingEmailsForSending fetches a batch of queued emails and stamps
// their lastSendAttempt so parallel runners skip them until the lock expires.
func (dbService *WorkOrderDBService) GetOutgoingEmailsForSending(batchSize int64, lockDuration time.Duration) ([]messagingTypes.OutgoingEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"lastSendAttempt": bson.M{"$lt": time.Now().Add(-lockDuration).Unix()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "highPrio", Value: -1}, {Key: "addedAt", Value: 1}}).
		SetLimit(batchSize)

	cursor, err := dbService.collectionOutgoingEmails().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	emails := []messagingTypes.OutgoingEmail{}
	ids := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var email messagingTypes.OutgoingEmail
		if err := cursor.Decode(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
		ids = append(ids, email.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		_, err = dbService.collectionOutgoingEmails().UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ids}},
			bson.M{"$set": bson.M{"lastSendAttempt": time.Now().Unix()}},
		)
		if err != nil {
			return nil, err
		}
	}
	return emails, nil
}

// ResetLastSendAttemptForOutgoing clears the send lock so the next run
// retries the email right away.
func (dbService *WorkOrderDBService) ResetLastSendAttemptForOutgoing(id primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionOutgoingEmails().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastSendAttempt": 0}},
	)
	return err
}

func (dbService *WorkOrderDBService) DeleteOutgoingEmail(id primitive.ObjectID) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionOutgoingEmails().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddToSentEmails records a delivered email, content stripped.
func (dbService *WorkOrderDBService) AddToSentEmails(email messagingTypes.OutgoingEmail) (messagingTypes.OutgoingEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	email.AddedAt = time.Now().Unix()
	email.Content = ""
	email.ID = primitive.NilObjectID

	res, err := dbService.collectionSentEmails().InsertOne(ctx, email)
	if err != nil {
		return email, err
	}
	email.ID = res.InsertedID.(primitive.ObjectID)
	return email, nil
}

package dashboard

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func (dbService *DashboardDBService) createIndexForPromptsCollection() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPrompts().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "prompt", Value: 1},
				{Key: "language", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	)
	return err
}

// GetDefaultPrompts fetches the tier-1 entries every session needs: the
// default scope plus the descriptions scope.
func (dbService *DashboardDBService) GetDefaultPrompts(language string) ([]dashboardTypes.PromptEntry, error) {
	defaults, err := dbService.GetPromptsForScope(dashboardTypes.PROMPT_SCOPE_DEFAULT, language)
	if err != nil {
		return nil, err
	}
	descriptions, err := dbService.GetPromptsForScope(dashboardTypes.PROMPT_SCOPE_DESCRIPTIONS, language)
	if err != nil {
		return nil, err
	}
	return append(defaults, descriptions...), nil
}

// GetPromptsForScope fetches all entries of one scope and language, matching
// on the "<scope>-" prefix of the packed prompt id.
func (dbService *DashboardDBService) GetPromptsForScope(scope string, language string) ([]dashboardTypes.PromptEntry, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"prompt":   primitive.Regex{Pattern: "^" + scope + "-"},
		"language": language,
	}
	cursor, err := dbService.collectionPrompts().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []dashboardTypes.PromptEntry{}
	for cursor.Next(ctx) {
		var entry dashboardTypes.PromptEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (dbService *DashboardDBService) UpsertPromptEntry(entry dashboardTypes.PromptEntry) (dashboardTypes.PromptEntry, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"prompt":   entry.Prompt,
		"language": entry.Language,
	}
	upsert := true
	rd := options.After
	opts := options.FindOneAndReplaceOptions{
		Upsert:         &upsert,
		ReturnDocument: &rd,
	}
	elem := dashboardTypes.PromptEntry{}
	entry.ID = primitive.NilObjectID
	err := dbService.collectionPrompts().FindOneAndReplace(ctx, filter, entry, &opts).Decode(&elem)
	return elem, err
}

func (dbService *DashboardDBService) DeletePromptEntry(prompt string, language string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionPrompts().DeleteOne(ctx, bson.M{
		"prompt":   prompt,
		"language": language,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

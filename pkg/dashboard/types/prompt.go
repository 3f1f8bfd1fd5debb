package types

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	PROMPT_SCOPE_DEFAULT      = "default"
	PROMPT_SCOPE_DESCRIPTIONS = "descriptions"

	DEFAULT_LANGUAGE = "English"
)

// PromptEntry is the flat storage encoding of one localized text: the Prompt
// field packs scope and key as "<scope>-<key>". The ingestion layer
// normalizes entries into the canonical nested lookup structure.
type PromptEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Prompt   string             `bson:"prompt" json:"prompt"`
	Language string             `bson:"language" json:"language"`
	Text     string             `bson:"text" json:"text"`
}

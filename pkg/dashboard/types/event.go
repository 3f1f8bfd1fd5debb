package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// EventDefinition describes one parent event (program) with its sub-events.
// An event without sub-events is never classified; it only contributes its
// showcase videos.
type EventDefinition struct {
	ID                primitive.ObjectID            `bson:"_id,omitempty" json:"id,omitempty"`
	AID               string                        `bson:"aid" json:"aid"`
	Config            EventConfig                   `bson:"config" json:"config"`
	SubEvents         map[string]SubEventDefinition `bson:"subEvents,omitempty" json:"subEvents,omitempty"`
	ShowcaseVideoList []MediaItem                   `bson:"showcaseVideoList,omitempty" json:"showcaseVideoList,omitempty"`
}

type EventConfig struct {
	Pool                    string `bson:"pool" json:"pool"`
	AIDAlias                string `bson:"aidAlias,omitempty" json:"aidAlias,omitempty"`
	CoordEmailAmericas      string `bson:"coordEmailAmericas,omitempty" json:"coordEmailAmericas,omitempty"`
	CoordEmailEurope        string `bson:"coordEmailEurope,omitempty" json:"coordEmailEurope,omitempty"`
	OfferingPresentation    bool   `bson:"offeringPresentation" json:"offeringPresentation"`
	NeedAcceptance          bool   `bson:"needAcceptance" json:"needAcceptance"`
	OfferingPeriodClosed    bool   `bson:"offeringPeriodClosed" json:"offeringPeriodClosed"`
	ApplicationPeriodClosed bool   `bson:"applicationPeriodClosed" json:"applicationPeriodClosed"`
	InPerson                bool   `bson:"inPerson" json:"inPerson"`
	EligibleOnlyMediaAccess bool   `bson:"eligibleOnlyMediaAccess" json:"eligibleOnlyMediaAccess"`
	MediaAttendeesOnly      bool   `bson:"mediaAttendeesOnly" json:"mediaAttendeesOnly"`
}

type SubEventDefinition struct {
	Date                      string      `bson:"date" json:"date"` // ISO 8601 date string
	EventOnDeck               bool        `bson:"eventOnDeck" json:"eventOnDeck"`
	EventComplete             bool        `bson:"eventComplete" json:"eventComplete"`
	EmbeddedVideoList         []MediaItem `bson:"embeddedVideoList,omitempty" json:"embeddedVideoList,omitempty"`
	EmbeddedPDFList           []MediaItem `bson:"embeddedPDFList,omitempty" json:"embeddedPDFList,omitempty"`
	MediaLink                 string      `bson:"mediaLink,omitempty" json:"mediaLink,omitempty"`
	EmbeddedEmails            []string    `bson:"embeddedEmails,omitempty" json:"embeddedEmails,omitempty"`
	OfferingCompanionAID      string      `bson:"offeringCompanionAID,omitempty" json:"offeringCompanionAID,omitempty"`
	OfferingCompanionSubEvent string      `bson:"offeringCompanionSubEvent,omitempty" json:"offeringCompanionSubEvent,omitempty"`
	ZoomLink                  string      `bson:"zoomLink,omitempty" json:"zoomLink,omitempty"`
	RegLinkAvailable          bool        `bson:"regLinkAvailable" json:"regLinkAvailable"`
	NoRegRequired             bool        `bson:"noRegRequired" json:"noRegRequired"`
}

type MediaItem struct {
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url" json:"url"`
}

package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// Student defines the datamodel for a student record as stored in the database
type Student struct {
	ID               primitive.ObjectID      `bson:"_id,omitempty" json:"id,omitempty"`
	PID              string                  `bson:"pid" json:"pid"`
	Email            string                  `bson:"email" json:"email"`
	First            string                  `bson:"first" json:"first"`
	Last             string                  `bson:"last" json:"last"`
	Country          string                  `bson:"country" json:"country"`
	WrittenLangPref  string                  `bson:"writtenLangPref" json:"writtenLangPref"`
	EmailPreferences map[string]bool         `bson:"emailPreferences" json:"emailPreferences"`
	Practice         map[string]int64        `bson:"practice" json:"practice"`
	Programs         map[string]ProgramState `bson:"programs" json:"programs"`
	ModifiedAt       int64                   `bson:"modifiedAt" json:"modifiedAt"`
}

// ProgramState holds the per-event history of a student, keyed by the
// event's AID in Student.Programs. Initialized lazily on the first
// dashboard visit for that event.
type ProgramState struct {
	OfferingHistory map[string]OfferingRecord `bson:"offeringHistory" json:"offeringHistory"`
	Accepted        bool                      `bson:"accepted" json:"accepted"`
	Join            bool                      `bson:"join" json:"join"`
	Withdrawn       bool                      `bson:"withdrawn" json:"withdrawn"`
	Attended        bool                      `bson:"attended" json:"attended"`
	Oath            bool                      `bson:"oath" json:"oath"`
	Test            bool                      `bson:"test" json:"test"`
	Eligible        bool                      `bson:"eligible" json:"eligible"`
	WhichRetreats   map[string]bool           `bson:"whichRetreats" json:"whichRetreats"`
	ClickCount      int64                     `bson:"clickCount" json:"clickCount"`
	ClickTime       int64                     `bson:"clickTime" json:"clickTime"`
}

// OfferingRecord marks a completed (or pending) offering for one sub-event.
// The offering counts as completed when OfferingSKU is non-empty.
type OfferingRecord struct {
	OfferingSKU string `bson:"offeringSKU,omitempty" json:"offeringSKU,omitempty"`
	CompletedAt int64  `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// HasOffering reports whether the record carries a completed offering SKU.
func (r OfferingRecord) HasOffering() bool {
	return r.OfferingSKU != ""
}

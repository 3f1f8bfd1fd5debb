package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// Attribute kinds understood by the eligibility engine. An attribute with a
// kind outside this list is never eligible.
const (
	ATTRIBUTE_TYPE_TRUE                       = "true"
	ATTRIBUTE_TYPE_POOL                       = "pool"
	ATTRIBUTE_TYPE_POOL_DIFF                  = "pooldiff"
	ATTRIBUTE_TYPE_POOL_AND                   = "pooland"
	ATTRIBUTE_TYPE_PRACTICE                   = "practice"
	ATTRIBUTE_TYPE_OFFERING                   = "offering"
	ATTRIBUTE_TYPE_CURRENT_EVENT_OFFERING     = "currenteventoffering"
	ATTRIBUTE_TYPE_CURRENT_EVENT_TEST         = "currenteventtest"
	ATTRIBUTE_TYPE_CURRENT_EVENT_NOT_OFFERING = "currenteventnotoffering"
	ATTRIBUTE_TYPE_OFFERING_AND_POOLS         = "offeringandpools"
	ATTRIBUTE_TYPE_OATH                       = "oath"
	ATTRIBUTE_TYPE_ATTENDED                   = "attended"
	ATTRIBUTE_TYPE_JOIN                       = "join"
	ATTRIBUTE_TYPE_CURRENT_EVENT_JOIN         = "currenteventjoin"
	ATTRIBUTE_TYPE_CURRENT_EVENT_ACCEPTED     = "currenteventaccepted"
	ATTRIBUTE_TYPE_CURRENT_EVENT_NOT_JOIN     = "currenteventnotjoin"
	ATTRIBUTE_TYPE_JOIN_WHICH                 = "joinwhich"
	ATTRIBUTE_TYPE_ELIGIBLE                   = "eligible"
)

// Pool is a named set of eligibility predicates, combined with OR.
type Pool struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Attributes []PoolAttribute    `bson:"attributes" json:"attributes"`
}

// PoolAttribute is one typed predicate within a pool. Which fields are
// relevant depends on Type (e.g. "pool" uses Name, "pooldiff" uses
// InPool/OutPool, "offering" uses AID and SubEvent).
type PoolAttribute struct {
	Type     string   `bson:"type" json:"type"`
	Name     string   `bson:"name,omitempty" json:"name,omitempty"`
	InPool   string   `bson:"inpool,omitempty" json:"inpool,omitempty"`
	OutPool  string   `bson:"outpool,omitempty" json:"outpool,omitempty"`
	Pool1    string   `bson:"pool1,omitempty" json:"pool1,omitempty"`
	Pool2    string   `bson:"pool2,omitempty" json:"pool2,omitempty"`
	Field    string   `bson:"field,omitempty" json:"field,omitempty"`
	AID      string   `bson:"aid,omitempty" json:"aid,omitempty"`
	SubEvent string   `bson:"subevent,omitempty" json:"subevent,omitempty"`
	Pools    []string `bson:"pools,omitempty" json:"pools,omitempty"`
	Retreat  string   `bson:"retreat,omitempty" json:"retreat,omitempty"`
}

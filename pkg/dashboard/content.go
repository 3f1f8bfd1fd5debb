package dashboard

import (
	"sort"

	"github.com/program-framework/program-backend/pkg/dashboard/eligibility"
	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

// Content states a sub-event can classify into. Each on-deck sub-event of an
// eligible event lands in exactly one of these.
const (
	CONTENT_STATE_UPCOMING_UNREGISTERED = "upcoming-unregistered"
	CONTENT_STATE_UPCOMING_REGISTERED   = "upcoming-registered"
	CONTENT_STATE_AWAITING_ACCEPTANCE   = "awaiting-acceptance"
	CONTENT_STATE_APPLICATION_CLOSED    = "application-closed"
	CONTENT_STATE_OFFERING_CLOSED       = "offering-closed"
	CONTENT_STATE_MEDIA_LOCKED          = "media-locked"
	CONTENT_STATE_MEDIA_AVAILABLE       = "media-available"
	CONTENT_STATE_NO_MEDIA              = "no-media"
)

const (
	MEDIA_KIND_PDF   = "pdf"
	MEDIA_KIND_VIDEO = "video"
	MEDIA_KIND_LINK  = "link"
	MEDIA_KIND_NONE  = ""
)

// ProgramContent is one classified dashboard row for a (event, sub-event) pair.
type ProgramContent struct {
	AID              string                       `json:"aid"`
	SubEvent         string                       `json:"subEvent"`
	Date             string                       `json:"date"`
	State            string                       `json:"state"`
	MediaKind        string                       `json:"mediaKind,omitempty"`
	Title            string                       `json:"title"`
	Description      *prompts.HTMLContent         `json:"description,omitempty"`
	Videos           []dashboardTypes.MediaItem   `json:"videos,omitempty"`
	PDFs             []dashboardTypes.MediaItem   `json:"pdfs,omitempty"`
	MediaLink        string                       `json:"mediaLink,omitempty"`
	ZoomLink         string                       `json:"zoomLink,omitempty"`
	RegLinkAvailable bool                         `json:"regLinkAvailable"`
	NoRegRequired    bool                         `json:"noRegRequired"`
}

// BuildProgramContent runs the full decision pass: for every event the
// student's pool admits, every on-deck sub-event is classified into exactly
// one content state. Events without sub-events are excluded here; they only
// feed the showcase list. The returned rows are sorted by date, newest first.
func BuildProgramContent(
	student dashboardTypes.Student,
	events []dashboardTypes.EventDefinition,
	pools []dashboardTypes.Pool,
	resolver *prompts.Resolver,
) []ProgramContent {
	rows := []ProgramContent{}
	for _, ev := range events {
		if len(ev.SubEvents) == 0 {
			continue
		}
		evalCtx := eligibility.EvalContext{
			Student:        student,
			CurrentEventID: ev.AID,
			Pools:          pools,
		}
		if !eligibility.IsEligible(ev.Config.Pool, evalCtx) {
			continue
		}

		title := resolver.LookupScoped(ev.AID, ev.Config.AIDAlias, "title")
		description := resolver.LookupDescription(ev.AID)

		// map iteration order is random; fix the enumeration order so that
		// date ties sort the same way on every pass
		names := make([]string, 0, len(ev.SubEvents))
		for name := range ev.SubEvents {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			se := ev.SubEvents[name]
			if !se.EventOnDeck {
				continue
			}
			state, mediaKind := classifySubEvent(student, ev, name, se)
			rows = append(rows, ProgramContent{
				AID:              ev.AID,
				SubEvent:         name,
				Date:             se.Date,
				State:            state,
				MediaKind:        mediaKind,
				Title:            title,
				Description:      description,
				Videos:           se.EmbeddedVideoList,
				PDFs:             se.EmbeddedPDFList,
				MediaLink:        se.MediaLink,
				ZoomLink:         se.ZoomLink,
				RegLinkAvailable: se.RegLinkAvailable,
				NoRegRequired:    se.NoRegRequired,
			})
		}
	}
	SortContentRows(rows)
	return rows
}

// classifySubEvent applies the classification precedence: registered-and-live
// first, then the period-closed gates, then the acceptance branch, and for
// completed events the media branch.
func classifySubEvent(
	student dashboardTypes.Student,
	ev dashboardTypes.EventDefinition,
	subEventName string,
	se dashboardTypes.SubEventDefinition,
) (state string, mediaKind string) {
	program := student.Programs[ev.AID]

	rec, hasEntry := program.OfferingHistory[subEventName]
	completed := hasEntry && rec.HasOffering()
	registered := completed && !program.Withdrawn

	if !se.EventComplete {
		if registered {
			return CONTENT_STATE_UPCOMING_REGISTERED, MEDIA_KIND_NONE
		}
		if ev.Config.OfferingPeriodClosed {
			return CONTENT_STATE_OFFERING_CLOSED, MEDIA_KIND_NONE
		}
		if ev.Config.ApplicationPeriodClosed {
			return CONTENT_STATE_APPLICATION_CLOSED, MEDIA_KIND_NONE
		}
		if ev.Config.NeedAcceptance {
			if program.Accepted && !program.Withdrawn {
				return CONTENT_STATE_UPCOMING_REGISTERED, MEDIA_KIND_NONE
			}
			if program.Join && !program.Withdrawn {
				return CONTENT_STATE_AWAITING_ACCEPTANCE, MEDIA_KIND_NONE
			}
		}
		return CONTENT_STATE_UPCOMING_UNREGISTERED, MEDIA_KIND_NONE
	}

	// completed event: media branch
	if ev.Config.MediaAttendeesOnly && !program.Attended {
		return CONTENT_STATE_NO_MEDIA, MEDIA_KIND_NONE
	}
	if ev.Config.EligibleOnlyMediaAccess && !program.Eligible {
		return CONTENT_STATE_NO_MEDIA, MEDIA_KIND_NONE
	}
	if ev.Config.OfferingPresentation && !completed && !companionCompleted(student, se) {
		return CONTENT_STATE_MEDIA_LOCKED, MEDIA_KIND_NONE
	}
	switch {
	case len(se.EmbeddedPDFList) > 0:
		return CONTENT_STATE_MEDIA_AVAILABLE, MEDIA_KIND_PDF
	case len(se.EmbeddedVideoList) > 0:
		return CONTENT_STATE_MEDIA_AVAILABLE, MEDIA_KIND_VIDEO
	case se.MediaLink != "":
		return CONTENT_STATE_MEDIA_AVAILABLE, MEDIA_KIND_LINK
	default:
		return CONTENT_STATE_NO_MEDIA, MEDIA_KIND_NONE
	}
}

// companionCompleted checks the configured companion (aid, subEvent) pair for
// a completed offering that stands in for the primary one.
func companionCompleted(student dashboardTypes.Student, se dashboardTypes.SubEventDefinition) bool {
	if se.OfferingCompanionAID == "" || se.OfferingCompanionSubEvent == "" {
		return false
	}
	program, ok := student.Programs[se.OfferingCompanionAID]
	if !ok {
		return false
	}
	rec, ok := program.OfferingHistory[se.OfferingCompanionSubEvent]
	return ok && rec.HasOffering()
}

// SortContentRows orders rows descending by date string (ISO 8601 compares
// lexically); ties keep their enumeration order.
func SortContentRows(rows []ProgramContent) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
}

// CollectShowcaseVideos gathers the showcase lists of events that have no
// sub-events (pure showcase sources, skipped by classification).
func CollectShowcaseVideos(events []dashboardTypes.EventDefinition) []dashboardTypes.MediaItem {
	videos := []dashboardTypes.MediaItem{}
	for _, ev := range events {
		if len(ev.SubEvents) > 0 {
			continue
		}
		videos = append(videos, ev.ShowcaseVideoList...)
	}
	return videos
}

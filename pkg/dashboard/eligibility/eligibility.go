package eligibility

import (
	"log/slog"
	"strings"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

// Pool references are authored acyclically, but a bad rule set must fail
// closed instead of overflowing the stack.
const maxRecursionDepth = 32

// EvalContext contains all the data an eligibility evaluation can look up.
// It is immutable during evaluation; IsEligible is a pure function of it.
type EvalContext struct {
	Student        dashboardTypes.Student
	CurrentEventID string
	Pools          []dashboardTypes.Pool
}

// IsEligible resolves a pool name against the student and current event
// context. A missing pool, an empty attribute list or an unknown attribute
// kind evaluates to false (fail-closed), never to an error.
func IsEligible(poolName string, ctx EvalContext) bool {
	return ctx.isEligible(poolName, 0)
}

func (ctx EvalContext) isEligible(poolName string, depth int) bool {
	if depth > maxRecursionDepth {
		slog.Error("pool recursion limit reached", slog.String("pool", poolName), slog.String("currentEvent", ctx.CurrentEventID))
		return false
	}

	pool, found := ctx.findPool(poolName)
	if !found {
		slog.Warn("pool not found", slog.String("pool", poolName), slog.String("currentEvent", ctx.CurrentEventID))
		return false
	}
	if len(pool.Attributes) == 0 {
		slog.Warn("pool has no attributes", slog.String("pool", poolName))
		return false
	}

	// OR across attributes, short-circuit on the first eligible one
	for _, attr := range pool.Attributes {
		if ctx.attributeEligible(attr, depth) {
			return true
		}
	}
	return false
}

func (ctx EvalContext) findPool(name string) (pool dashboardTypes.Pool, found bool) {
	for _, p := range ctx.Pools {
		if p.Name == name {
			return p, true
		}
	}
	return pool, false
}

func (ctx EvalContext) attributeEligible(attr dashboardTypes.PoolAttribute, depth int) bool {
	switch attr.Type {
	case dashboardTypes.ATTRIBUTE_TYPE_TRUE:
		return true
	case dashboardTypes.ATTRIBUTE_TYPE_POOL:
		return ctx.isEligible(attr.Name, depth+1)
	case dashboardTypes.ATTRIBUTE_TYPE_POOL_DIFF:
		return ctx.isEligible(attr.InPool, depth+1) && !ctx.isEligible(attr.OutPool, depth+1)
	case dashboardTypes.ATTRIBUTE_TYPE_POOL_AND:
		return ctx.isEligible(attr.Pool1, depth+1) && ctx.isEligible(attr.Pool2, depth+1)
	case dashboardTypes.ATTRIBUTE_TYPE_PRACTICE:
		return ctx.Student.Practice[attr.Field] != 0
	case dashboardTypes.ATTRIBUTE_TYPE_OFFERING:
		rec, ok := ctx.offeringRecord(attr.AID, attr.SubEvent)
		return ok && rec.HasOffering()
	case dashboardTypes.ATTRIBUTE_TYPE_CURRENT_EVENT_OFFERING:
		program, ok := ctx.currentProgram()
		if !ok || program.Withdrawn {
			return false
		}
		rec, ok := program.OfferingHistory[attr.SubEvent]
		return ok && rec.HasOffering()
	case dashboardTypes.ATTRIBUTE_TYPE_CURRENT_EVENT_TEST:
		program, ok := ctx.currentProgram()
		return ok && program.Test
	case dashboardTypes.ATTRIBUTE_TYPE_CURRENT_EVENT_NOT_OFFERING:
		// only an existing entry without a SKU counts; no entry at all is false
		rec, ok := ctx.offeringRecord(ctx.CurrentEventID, attr.SubEvent)
		return ok && !rec.HasOffering()
	case dashboardTypes.ATTRIBUTE_TYPE_OFFERING_AND_POOLS:
		if _, ok := ctx.offeringRecord(attr.AID, attr.SubEvent); !ok {
			return false
		}
		for _, name := range attr.Pools {
			if ctx.isEligible(name, depth+1) {
				return true
			}
		}
		return false
	case dashboardTypes.ATTRIBUTE_TYPE_OATH:
		program, ok := ctx.program(attr.AID)
		return ok && program.Oath
	case dashboardTypes.ATTRIBUTE_TYPE_ATTENDED:
		program, ok := ctx.program(attr.AID)
		return ok && program.Attended
	case dashboardTypes.ATTRIBUTE_TYPE_JOIN:
		program, ok := ctx.program(attr.AID)
		return ok && program.Join
	case dashboardTypes.ATTRIBUTE_TYPE_CURRENT_EVENT_JOIN:
		program, ok := ctx.currentProgram()
		return ok && program.Join
	case dashboardTypes.ATTRIBUTE_TYPE_CURRENT_EVENT_ACCEPTED:
		program, ok := ctx.currentProgram()
		return ok && program.Accepted && !program.Withdrawn
	case dashboardTypes.ATTRIBUTE_TYPE_CURRENT_EVENT_NOT_JOIN:
		program, ok := ctx.currentProgram()
		return !ok || !program.Join
	case dashboardTypes.ATTRIBUTE_TYPE_JOIN_WHICH:
		program, ok := ctx.program(attr.AID)
		if !ok || !program.Join || program.Withdrawn {
			return false
		}
		for key := range program.WhichRetreats {
			if strings.HasPrefix(key, attr.Retreat) {
				return true
			}
		}
		return false
	case dashboardTypes.ATTRIBUTE_TYPE_ELIGIBLE:
		program, ok := ctx.currentProgram()
		return ok && program.Eligible
	default:
		slog.Warn("unknown pool attribute type", slog.String("type", attr.Type), slog.String("currentEvent", ctx.CurrentEventID))
		return false
	}
}

func (ctx EvalContext) program(aid string) (dashboardTypes.ProgramState, bool) {
	program, ok := ctx.Student.Programs[aid]
	return program, ok
}

func (ctx EvalContext) currentProgram() (dashboardTypes.ProgramState, bool) {
	return ctx.program(ctx.CurrentEventID)
}

func (ctx EvalContext) offeringRecord(aid string, subEvent string) (dashboardTypes.OfferingRecord, bool) {
	program, ok := ctx.program(aid)
	if !ok {
		return dashboardTypes.OfferingRecord{}, false
	}
	rec, ok := program.OfferingHistory[subEvent]
	return rec, ok
}

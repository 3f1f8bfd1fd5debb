package eligibility

import (
	"testing"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func TestIsEligiblePoolLookup(t *testing.T) {
	pools := []dashboardTypes.Pool{
		{Name: "always", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "true"},
		}},
		{Name: "empty", Attributes: []dashboardTypes.PoolAttribute{}},
	}

	t.Run("missing pool fails closed", func(t *testing.T) {
		ctx := EvalContext{Pools: pools}
		if IsEligible("not-there", ctx) {
			t.Error("expected false for missing pool")
		}
	})

	t.Run("pool with no attributes fails closed", func(t *testing.T) {
		ctx := EvalContext{Pools: pools}
		if IsEligible("empty", ctx) {
			t.Error("expected false for empty attribute list")
		}
	})

	t.Run("true attribute ignores student data", func(t *testing.T) {
		ctx := EvalContext{Pools: pools}
		if !IsEligible("always", ctx) {
			t.Error("expected true for 'true' attribute")
		}
	})

	t.Run("nil pool list fails closed", func(t *testing.T) {
		ctx := EvalContext{}
		if IsEligible("always", ctx) {
			t.Error("expected false for nil pool list")
		}
	})
}

func TestIsEligiblePracticeAttribute(t *testing.T) {
	pools := []dashboardTypes.Pool{
		{Name: "A", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "practice", Field: "daily"},
		}},
	}

	t.Run("with truthy practice value", func(t *testing.T) {
		ctx := EvalContext{
			Student: dashboardTypes.Student{Practice: map[string]int64{"daily": 108}},
			Pools:   pools,
		}
		if !IsEligible("A", ctx) {
			t.Error("expected true")
		}
	})

	t.Run("with zero practice value", func(t *testing.T) {
		ctx := EvalContext{
			Student: dashboardTypes.Student{Practice: map[string]int64{"daily": 0}},
			Pools:   pools,
		}
		if IsEligible("A", ctx) {
			t.Error("expected false")
		}
	})

	t.Run("with no practice map at all", func(t *testing.T) {
		ctx := EvalContext{
			Student: dashboardTypes.Student{},
			Pools:   pools,
		}
		if IsEligible("A", ctx) {
			t.Error("expected false, not a panic, for missing practice map")
		}
	})
}

func TestIsEligiblePoolComposition(t *testing.T) {
	pools := []dashboardTypes.Pool{
		{Name: "yes", Attributes: []dashboardTypes.PoolAttribute{{Type: "true"}}},
		{Name: "no", Attributes: []dashboardTypes.PoolAttribute{{Type: "practice", Field: "never"}}},
		{Name: "refYes", Attributes: []dashboardTypes.PoolAttribute{{Type: "pool", Name: "yes"}}},
		{Name: "refMissing", Attributes: []dashboardTypes.PoolAttribute{{Type: "pool", Name: "ghost"}}},
		{Name: "diff", Attributes: []dashboardTypes.PoolAttribute{{Type: "pooldiff", InPool: "yes", OutPool: "no"}}},
		{Name: "diffSame", Attributes: []dashboardTypes.PoolAttribute{{Type: "pooldiff", InPool: "yes", OutPool: "yes"}}},
		{Name: "andAB", Attributes: []dashboardTypes.PoolAttribute{{Type: "pooland", Pool1: "yes", Pool2: "no"}}},
		{Name: "andBA", Attributes: []dashboardTypes.PoolAttribute{{Type: "pooland", Pool1: "no", Pool2: "yes"}}},
		{Name: "andYY", Attributes: []dashboardTypes.PoolAttribute{{Type: "pooland", Pool1: "yes", Pool2: "yes"}}},
	}
	ctx := EvalContext{Pools: pools}

	t.Run("recursive pool reference", func(t *testing.T) {
		if !IsEligible("refYes", ctx) {
			t.Error("expected true via recursion")
		}
	})

	t.Run("recursive reference to missing pool resolves false", func(t *testing.T) {
		if IsEligible("refMissing", ctx) {
			t.Error("expected false for dangling reference")
		}
	})

	t.Run("pooldiff is in minus out", func(t *testing.T) {
		if !IsEligible("diff", ctx) {
			t.Error("expected true: in eligible, out not")
		}
	})

	t.Run("pooldiff of a pool with itself is false", func(t *testing.T) {
		if IsEligible("diffSame", ctx) {
			t.Error("expected false for inpool == outpool")
		}
	})

	t.Run("pooland is commutative in truth value", func(t *testing.T) {
		if IsEligible("andAB", ctx) != IsEligible("andBA", ctx) {
			t.Error("expected same result for swapped operands")
		}
		if !IsEligible("andYY", ctx) {
			t.Error("expected true when both operands eligible")
		}
	})
}

func TestIsEligibleCyclicPools(t *testing.T) {
	pools := []dashboardTypes.Pool{
		{Name: "a", Attributes: []dashboardTypes.PoolAttribute{{Type: "pool", Name: "b"}}},
		{Name: "b", Attributes: []dashboardTypes.PoolAttribute{{Type: "pool", Name: "a"}}},
	}
	ctx := EvalContext{Pools: pools}
	if IsEligible("a", ctx) {
		t.Error("expected cyclic rule set to fail closed")
	}
}

func TestIsEligibleOfferingAttributes(t *testing.T) {
	student := dashboardTypes.Student{
		Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {
				OfferingHistory: map[string]dashboardTypes.OfferingRecord{
					"weekend1": {OfferingSKU: "sku-1"},
					"weekend2": {},
				},
			},
			"ev2023": {
				OfferingHistory: map[string]dashboardTypes.OfferingRecord{
					"retreat": {OfferingSKU: "sku-9"},
				},
				Withdrawn: true,
			},
		},
	}

	t.Run("offering with SKU present", func(t *testing.T) {
		pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "offering", AID: "ev2024", SubEvent: "weekend1"},
		}}}
		if !IsEligible("p", EvalContext{Student: student, Pools: pools}) {
			t.Error("expected true")
		}
	})

	t.Run("offering entry without SKU", func(t *testing.T) {
		pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "offering", AID: "ev2024", SubEvent: "weekend2"},
		}}}
		if IsEligible("p", EvalContext{Student: student, Pools: pools}) {
			t.Error("expected false for entry without SKU")
		}
	})

	t.Run("currenteventoffering", func(t *testing.T) {
		pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "currenteventoffering", SubEvent: "weekend1"},
		}}}
		if !IsEligible("p", EvalContext{Student: student, CurrentEventID: "ev2024", Pools: pools}) {
			t.Error("expected true")
		}
	})

	t.Run("currenteventoffering blocked by withdrawal", func(t *testing.T) {
		pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "currenteventoffering", SubEvent: "retreat"},
		}}}
		if IsEligible("p", EvalContext{Student: student, CurrentEventID: "ev2023", Pools: pools}) {
			t.Error("expected false: offering completed but student withdrawn")
		}
	})

	t.Run("currenteventnotoffering needs an existing entry", func(t *testing.T) {
		pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "currenteventnotoffering", SubEvent: "weekend2"},
		}}}
		ctx := EvalContext{Student: student, CurrentEventID: "ev2024", Pools: pools}
		if !IsEligible("p", ctx) {
			t.Error("expected true for entry without SKU")
		}

		pools[0].Attributes[0].SubEvent = "nosuch"
		ctx = EvalContext{Student: student, CurrentEventID: "ev2024", Pools: pools}
		if IsEligible("p", ctx) {
			t.Error("expected false when the entry does not exist at all")
		}
	})

	t.Run("offeringandpools", func(t *testing.T) {
		pools := []dashboardTypes.Pool{
			{Name: "gate", Attributes: []dashboardTypes.PoolAttribute{{Type: "true"}}},
			{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
				{Type: "offeringandpools", AID: "ev2024", SubEvent: "weekend1", Pools: []string{"nosuch", "gate"}},
			}},
		}
		if !IsEligible("p", EvalContext{Student: student, Pools: pools}) {
			t.Error("expected true: entry exists and one referenced pool eligible")
		}

		pools[1].Attributes[0].Pools = []string{"nosuch"}
		if IsEligible("p", EvalContext{Student: student, Pools: pools}) {
			t.Error("expected false when no referenced pool is eligible")
		}
	})
}

func TestIsEligibleProgramFlagAttributes(t *testing.T) {
	student := dashboardTypes.Student{
		Programs: map[string]dashboardTypes.ProgramState{
			"evA": {Oath: true, Attended: true, Join: true, WhichRetreats: map[string]bool{"spring2024": true}},
			"evB": {Join: true, Accepted: true},
			"evC": {Join: true, Withdrawn: true, WhichRetreats: map[string]bool{"spring2024": true}},
			"evD": {Eligible: true, Test: true},
		},
	}

	cases := []struct {
		name string
		attr dashboardTypes.PoolAttribute
		aid  string
		want bool
	}{
		{"oath set", dashboardTypes.PoolAttribute{Type: "oath", AID: "evA"}, "", true},
		{"oath unset", dashboardTypes.PoolAttribute{Type: "oath", AID: "evB"}, "", false},
		{"attended set", dashboardTypes.PoolAttribute{Type: "attended", AID: "evA"}, "", true},
		{"join set", dashboardTypes.PoolAttribute{Type: "join", AID: "evB"}, "", true},
		{"join missing program", dashboardTypes.PoolAttribute{Type: "join", AID: "nosuch"}, "", false},
		{"currenteventjoin", dashboardTypes.PoolAttribute{Type: "currenteventjoin"}, "evB", true},
		{"currenteventaccepted", dashboardTypes.PoolAttribute{Type: "currenteventaccepted"}, "evB", true},
		{"currenteventaccepted withdrawn", dashboardTypes.PoolAttribute{Type: "currenteventaccepted"}, "evC", false},
		{"currenteventnotjoin", dashboardTypes.PoolAttribute{Type: "currenteventnotjoin"}, "evB", false},
		{"currenteventnotjoin without program", dashboardTypes.PoolAttribute{Type: "currenteventnotjoin"}, "nosuch", true},
		{"currenteventtest", dashboardTypes.PoolAttribute{Type: "currenteventtest"}, "evD", true},
		{"eligible flag", dashboardTypes.PoolAttribute{Type: "eligible"}, "evD", true},
		{"joinwhich prefix match", dashboardTypes.PoolAttribute{Type: "joinwhich", AID: "evA", Retreat: "spring"}, "", true},
		{"joinwhich no prefix match", dashboardTypes.PoolAttribute{Type: "joinwhich", AID: "evA", Retreat: "autumn"}, "", false},
		{"joinwhich withdrawn", dashboardTypes.PoolAttribute{Type: "joinwhich", AID: "evC", Retreat: "spring"}, "", false},
		{"unknown kind", dashboardTypes.PoolAttribute{Type: "teleport"}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{tc.attr}}}
			ctx := EvalContext{Student: student, CurrentEventID: tc.aid, Pools: pools}
			if got := IsEligible("p", ctx); got != tc.want {
				t.Errorf("unexpected result: got %t, want %t", got, tc.want)
			}
		})
	}
}

func TestIsEligibleShortCircuit(t *testing.T) {
	// second attribute would recurse into a missing pool; the first one
	// already matches so the result is true either way
	pools := []dashboardTypes.Pool{{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
		{Type: "true"},
		{Type: "pool", Name: "nosuch"},
	}}}
	ctx := EvalContext{Pools: pools}
	if !IsEligible("p", ctx) {
		t.Error("expected true from first attribute")
	}
}

func TestIsEligibleIdempotent(t *testing.T) {
	pools := []dashboardTypes.Pool{
		{Name: "p", Attributes: []dashboardTypes.PoolAttribute{
			{Type: "practice", Field: "daily"},
			{Type: "pool", Name: "q"},
		}},
		{Name: "q", Attributes: []dashboardTypes.PoolAttribute{{Type: "true"}}},
	}
	ctx := EvalContext{
		Student: dashboardTypes.Student{Practice: map[string]int64{"daily": 1}},
		Pools:   pools,
	}
	first := IsEligible("p", ctx)
	second := IsEligible("p", ctx)
	if first != second {
		t.Errorf("evaluation is not idempotent: %t then %t", first, second)
	}
}

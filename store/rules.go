package store

import "github.com/agentcat/sdk/catalog"

// kindRules captures the per-kind behavioral differences the backing store
// enforces. Everything not listed here is uniform across kinds.
type kindRules struct {
	// strictToggle rejects a status transition into the state the entity is
	// already in. Teams enforce this; the other kinds tolerate repeats.
	strictToggle bool

	// forceDeleteAbsentOK makes a forced delete of an absent entity a no-op
	// success. Teams instead reject it with their domain code.
	forceDeleteAbsentOK bool

	// requireDisabledDelete makes a non-forced delete require the entity to
	// be DISABLED first. Only tasks carry this rule.
	requireDisabledDelete bool
}

func rulesFor(kind catalog.Kind) kindRules {
	switch kind {
	case catalog.KindTeam:
		return kindRules{strictToggle: true, forceDeleteAbsentOK: false}
	case catalog.KindTask:
		return kindRules{forceDeleteAbsentOK: true, requireDisabledDelete: true}
	default:
		return kindRules{forceDeleteAbsentOK: true}
	}
}

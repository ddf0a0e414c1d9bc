// Package store provides reference backing-store drivers for the agent
// catalog. A Store implements catalog.Backend by combining a small document
// store (Redis or etcd) with the catalog's server-side semantics: name
// uniqueness, per-kind status-transition and delete rules, authoritative
// attribute validation, server-side regular-expression matching for List,
// and the ERR-NNNNN error taxonomy.
//
// The semantics live in the engine, written once; the drivers only move
// documents. Conversation turns (Team Run) are delegated to an injected
// Runner; without one, Run is rejected, since orchestration is a capability
// of the surrounding system, not of this package.
//
//	st, err := store.NewRedis(store.RedisOptions{
//		URL:       "redis://localhost:6379",
//		Namespace: "agentcat",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	teams := catalog.NewTeams(st)
package store

// Package catalog provides the client surface for a store-resident agent
// catalog: named, independently lifecycle-managed entities of five kinds
// (Profile, Tool, Task, Agent, Team) plus a neighboring named-credential
// capability.
//
// The backing store is authoritative for every business rule. Clients in this
// package construct entities, serialize attribute records, issue one
// synchronous round trip per operation against a Backend, and translate
// remote outcomes into typed errors. They never retry, never cache, and never
// reword a backend message.
//
// # Lifecycle contract
//
// Every kind shares the same operation set:
//
//	Create, Fetch, List, Enable, Disable,
//	SetAttribute, SetAttributes, Delete, Status
//
// Names are unique per kind and immutable after creation. Attributes are
// typed per kind and validated against an explicit schema table both locally
// (where feasible) and by the store engine (authoritatively). Referential
// integrity between kinds is deliberately lazy: a Tool may reference a
// Profile that does not exist yet; the dangling reference is only checked
// when the entity is used, not when it is created.
//
// # Errors
//
// Remote failures are decoded once, at the store boundary, into either a
// *NotFoundError (the entity name does not exist for the requested kind) or a
// *Error carrying a stable ERR-NNNNN code and the original backend message.
// See errors.go for the code taxonomy.
package catalog

// Package sdk provides the client SDK for the agentcat catalog.
//
// The catalog manages the lifecycle of five entity kinds (profiles, tools,
// tasks, agents, and teams) held in a remote store. Each kind has a typed
// client with the same operation set: create, fetch, list, enable, disable,
// set attributes, and delete. Teams additionally run, producing a response
// that is either a final answer or a request for human input.
//
// # Core Concepts
//
//   - Profiles: named LLM provider/model configurations
//   - Tools: capabilities (SQL, RAG, web search, notifications, HTTP) an agent can call
//   - Tasks: instructions with an optional tool list, performed by agents
//   - Agents: a profile plus a role, assignable to team tasks
//   - Teams: agent/task pairings executed by a process, currently sequential
//
// References between kinds are by name and are resolved lazily: a team may
// name agents that do not exist yet, and the gap surfaces only when the team
// runs.
//
// # Getting Started
//
// Open a catalog from a configuration file:
//
//	import "github.com/agentcat/sdk"
//
//	cat, err := sdk.Open("catalog.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cat.Close()
//
//	err = cat.Profiles().Create(ctx, &catalog.Profile{
//		Name:       "openai-gpt",
//		Attributes: catalog.ProfileAttributes{Provider: "openai", Model: "gpt-4"},
//	})
//
// Or wire a backend directly:
//
//	st, err := store.NewRedis(store.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	cat := sdk.New(st)
//
// # Errors
//
// Failed operations return coded errors that preserve the store's message
// verbatim. Use IsNotFound and ErrorCode to branch on them:
//
//	if err := cat.Agents().Delete(ctx, "helper"); sdk.IsNotFound(err) {
//		// already gone
//	}
//
// # Packages
//
//   - catalog: typed entity clients, schemas, and the Backend contract
//   - store: redis and etcd backed stores implementing the catalog semantics
//   - config: catalog.yaml loading and validation
package sdk

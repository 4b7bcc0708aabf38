// Package domain contains the core entities of a campaign orchestration
// run: the Session aggregate, per-node execution state, the execution
// plan, and the append-only log and asset records.
//
// The types here are persistence-agnostic. Adapters (Redis, in-memory)
// map them onto their own storage layout, and the orchestration engine
// only ever manipulates them through the ports interfaces.
package domain

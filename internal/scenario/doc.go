// Package scenario replays YAML-described store sessions and checks the
// outcome. A scenario seeds the local cache and the remote store, runs a
// flow of mutations against a real store.Store, and asserts on the final
// collections, the last pushed tables and the derived reports.
//
// # Scenario Format
//
//	name: order_lifecycle
//	description: "What this scenario shows"
//	today: "2024-03-10"
//	cache:                  # optional local cache contents
//	  orders: [...]
//	remote:                 # optional; omit to run without a remote store
//	  customers: [...]
//	fetch_error: "timeout"  # optional; the remote fetch fails with this text
//	cache_fails: true       # optional; cache writes fail after startup
//	flow:
//	  - op: add_order
//	    args: { customerName: Asha, cakeType: Vanilla, ... }
//	    expect: { id: id-1 }
//	assertions:
//	  - type: record
//	    collection: Orders
//	    id: id-1
//	    expect: { status: pending }
//
// Records in cache, remote and args use the JSON field names of the model
// types. Update ops patch the stored record with args.
//
// # Determinism
//
// Every run uses a fixed clock at noon UTC on today, entity ids id-1,
// id-2, ... in allocation order, and a fixed sync token, so the trace of
// a scenario is identical across runs and can be kept as a golden file.
package scenario

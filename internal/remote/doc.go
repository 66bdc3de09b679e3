// Package remote talks to the scripted HTTP endpoint in front of the
// spreadsheet that mirrors the three collections.
//
// The endpoint offers two operations with very different guarantees:
//
//   - Push writes one full table. It is unconfirmable: the endpoint's
//     response is not part of the contract, so a push is "dispatched",
//     never "durable". Push returns nothing; the only failures it can see
//     are low-level network errors, and those are logged, not returned.
//   - FetchAll reads all tables. It is confirmable and returns typed,
//     decoded collections or an error.
//
// PushAll issues the three table pushes concurrently and independently; a
// failure in one never blocks or undoes the others.
package remote

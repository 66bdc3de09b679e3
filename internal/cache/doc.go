// Package cache provides the durable local copy of the three collections.
//
// The cache is a small key/value surface: each collection is stored as one
// JSON document under a fixed key. A missing key means an empty collection.
// Three backends exist:
//
//   - SQLite (default): a single file with WAL journaling.
//   - Postgres: a shared table, for deployments that already run a database.
//   - Memory: process-local, for tests and throwaway sessions.
//
// Callers normally go through LoadCollections and SaveCollections rather
// than the raw Get/Put methods.
package cache

// Package database persists scan results and cached breach lookups in a
// local SQLite database.
//
// Design decision: a single SQLite file keeps the tool self-contained.
//  1. Scan results are stored as JSON documents next to a few indexed
//     metadata columns, so history listings never deserialize full results.
//  2. Breach lookups are cached per hashed email address. The raw address
//     never reaches disk, and repeated scans within the cache window do
//     not consume breach provider API quota.
//  3. The connection pool is restricted to a single connection because
//     SQLite allows only one writer at a time. WAL mode still permits
//     concurrent readers.
package database

// Package repositories implements persistence for the client stores.
//
// Key Implementations:
//   - [KeyValueRepository] : flat string key/value storage in SQLite, the device-local store
//   - [SQLiteDocumentStore] : per-user favorites documents kept in the local database
//   - [RedisDocumentStore] : per-user favorites documents shared through Redis
//
// Document stores expose whole-document Get and Set only. Callers that change a
// document read it, modify it and write it back; neither store offers a
// compare-and-swap, so concurrent writers for the same user are last-writer-wins.
package repositories

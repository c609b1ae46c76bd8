// Package store provides file-based persistence for SecureChat's core data.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking, and writes go through a temp-file-then-rename so a
// crash never leaves a half-written file. Stored files live under the
// configured home directory.
//
// The package includes stores for:
//   - The public key directory (KeyDirFileStore)
//   - The local encrypted keyring (KeyringFileStore)
//   - Hardened sessions with conditional attempt updates (SessionFileStore)
//   - Message envelopes (MessageFileStore)
//   - The append-only security event journal (EventFileLog)
package store

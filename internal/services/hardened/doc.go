// Package hardened manages passphrase-gated sessions and their lifecycle.
//
// A hardened session carries a random session key wrapped in two layers
// (per-participant RSA-OAEP, then a passphrase-derived AES-GCM key) and a
// failed-attempt counter. Three failed unlock attempts move the session to
// the terminal Locked state and run the lockdown procedure: export,
// archive, notify, wipe, mark. Every transition lands in the security
// event log.
package hardened

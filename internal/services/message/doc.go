// Package message encrypts, signs and stores outbound envelopes and opens
// inbound ones.
//
// Send derives the per-message key from the deterministic session key and
// the sequence number, seals the plaintext with AES-256-GCM, signs the
// transported ciphertext and pushes a copy to the recipient when online.
// Open reverses the pipeline and reports the tri-state verification
// outcome.
package message

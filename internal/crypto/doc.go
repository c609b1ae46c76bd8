// Package crypto exposes the primitives used by SecureChat.
//
// Contents
//
//   - RSA-OAEP-2048 and ECDSA P-256 key pair generation, plus portable
//     SPKI-PEM / PKCS#8 encodings (GenerateEncryptionKeyPair,
//     GenerateSigningKeyPair, ExportPublicKey, ImportPublicKey)
//   - Deterministic and random session keys (DeriveSessionKey,
//     RandomSessionKey)
//   - Per-message key derivation and the AES-256-GCM envelope cipher
//     (DeriveMessageKey, EncryptMessage, DecryptMessage)
//   - ECDSA signatures in the fixed raw encoding (Sign, Verify)
//   - Layered session-key wrapping for hardened sessions and the PBKDF2
//     passphrase verifier (WrapSessionKeyFor, WrapWithPassphrase,
//     UnwrapSessionKey, HashPassphrase)
//   - Scored passphrase strength checking (CheckPassphrase)
//
// # Notes
//
// All randomness comes from crypto/rand. Callers should treat returned
// secrets as sensitive and rely on memzero.Zero when practical to reduce
// lifetime in memory.
package crypto

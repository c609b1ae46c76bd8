// Package keyring manages creation, encrypted storage and loading of the
// local identity's key pairs.
//
// It generates the RSA-OAEP encryption pair and the ECDSA signing pair,
// persists the private halves via the domain.KeyringStore and publishes
// the public halves to the key directory.
package keyring

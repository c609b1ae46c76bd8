package keyring

import (
	"securechat/internal/crypto"
	"securechat/internal/domain"
)

// Service manages the local key pairs using a backing store and publishes
// public halves to the key directory.
//
// Each identity owns two independent pairs:
//   - RSA-2048 for OAEP encryption (session-key wrapping).
//   - ECDSA P-256 for signing message ciphertexts.
type Service struct {
	store domain.KeyringStore
	dir   domain.KeyDirectory
}

// New returns a keyring service backed by the given store and directory.
func New(store domain.KeyringStore, dir domain.KeyDirectory) *Service {
	return &Service{store: store, dir: dir}
}

// Init generates both key pairs, saves them encrypted with the passphrase
// and publishes the public halves. It returns a short fingerprint of the
// signing public key.
func (s *Service) Init(passphrase string, id domain.Identity, contact string) (domain.Fingerprint, error) {
	encKey, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return "", err
	}
	sigKey, err := crypto.GenerateSigningKeyPair()
	if err != nil {
		return "", err
	}

	encDER, err := crypto.ExportPrivateKey(encKey)
	if err != nil {
		return "", err
	}
	sigDER, err := crypto.ExportPrivateKey(sigKey)
	if err != nil {
		return "", err
	}
	kr := domain.Keyring{
		Identity:      id,
		Contact:       contact,
		EncryptionKey: encDER,
		SigningKey:    sigDER,
	}
	if err := s.store.SaveKeyring(passphrase, kr); err != nil {
		return "", err
	}

	encPEM, err := crypto.ExportPublicKey(&encKey.PublicKey)
	if err != nil {
		return "", err
	}
	sigPEM, err := crypto.ExportPublicKey(&sigKey.PublicKey)
	if err != nil {
		return "", err
	}
	rec := domain.PublicKeyRecord{
		Identity:      id,
		EncryptionPEM: encPEM,
		SigningPEM:    sigPEM,
		Contact:       contact,
	}
	if err := s.dir.SetPublicKeys(rec); err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint([]byte(sigPEM))), nil
}

// Load decrypts the stored keyring and returns the parsed private keys.
func (s *Service) Load(passphrase string) (domain.LocalKeys, error) {
	kr, err := s.store.LoadKeyring(passphrase)
	if err != nil {
		return domain.LocalKeys{}, err
	}
	encKey, err := crypto.ImportEncryptionPrivateKey(kr.EncryptionKey)
	if err != nil {
		return domain.LocalKeys{}, err
	}
	sigKey, err := crypto.ImportSigningPrivateKey(kr.SigningKey)
	if err != nil {
		return domain.LocalKeys{}, err
	}
	return domain.LocalKeys{
		Identity:   kr.Identity,
		Contact:    kr.Contact,
		Encryption: encKey,
		Signing:    sigKey,
	}, nil
}

// FingerprintIdentity returns a short fingerprint of the local signing
// public key.
func (s *Service) FingerprintIdentity(passphrase string) (domain.Fingerprint, error) {
	keys, err := s.Load(passphrase)
	if err != nil {
		return "", err
	}
	sigPEM, err := crypto.ExportPublicKey(&keys.Signing.PublicKey)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint([]byte(sigPEM))), nil
}

// ImportPeer validates a peer's published record and stores it in the
// directory. Both PEM blocks must parse as the expected key types.
func (s *Service) ImportPeer(rec domain.PublicKeyRecord) error {
	if _, err := crypto.ImportEncryptionPublicKey(rec.EncryptionPEM); err != nil {
		return err
	}
	if _, err := crypto.ImportSigningPublicKey(rec.SigningPEM); err != nil {
		return err
	}
	return s.dir.SetPublicKeys(rec)
}

// Compile-time assertion that Service implements domain.KeyringService.
var _ domain.KeyringService = (*Service)(nil)

/*
Package crypto defines the capability used to create and check signatures.

Code that signs never handles raw private keys directly. It is given a Signer
that was created from a key by a Provider. The secp256k1 Provider is the only
implementation, but tests and hardware backed signers can supply their own.
*/
package crypto

// Provider is the narrow set of primitives required to derive public keys,
// sign digests and verify signatures.
type Provider interface {
	// SHA256 returns the single SHA-256 hash of given data.
	SHA256(data []byte) []byte
	// Hash160 returns RIPEMD160(SHA256(data)).
	Hash160(data []byte) []byte
	// PublicKey returns the compressed public key of given private key.
	PublicKey(priv []byte) ([]byte, error)
	// Sign returns a DER encoded signature of a 32 byte digest.
	Sign(priv, digest []byte) ([]byte, error)
	// Verify returns true if the DER encoded signature was created for
	// given digest with the private key of given public key.
	Verify(pub, digest, sig []byte) bool
	// ValidatePubKey returns an error if given bytes are not a valid
	// compressed public key.
	ValidatePubKey(pub []byte) error
}

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	// Sign returns a DER encoded signature of given digest.
	Sign(digest []byte) ([]byte, error)
	// PublicKey returns the compressed public key matching the signing
	// key.
	PublicKey() []byte
}

// NewSigner returns a signer that holds given private key. The key is copied
// and cannot be read back.
func NewSigner(p Provider, priv []byte) (Signer, error) {
	pub, err := p.PublicKey(priv)
	if err != nil {
		return nil, err
	}
	key := make([]byte, len(priv))
	copy(key, priv)
	return &keySigner{provider: p, priv: key, pub: pub}, nil
}

type keySigner struct {
	provider Provider
	priv     []byte
	pub      []byte
}

var _ Signer = (*keySigner)(nil)

func (s *keySigner) Sign(digest []byte) ([]byte, error) {
	return s.provider.Sign(s.priv, digest)
}

func (s *keySigner) PublicKey() []byte {
	pub := make([]byte, len(s.pub))
	copy(pub, s.pub)
	return pub
}

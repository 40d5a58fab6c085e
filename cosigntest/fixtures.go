/*
Package cosigntest provides fixtures and helpers shared by the tests of
the cosign packages.
*/
package cosigntest

// Mnemonics of the three cosigners used across the tests. All of them are
// valid BIP39 phrases with a correct checksum.
const (
	SatoshiMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"
	HalMnemonic     = "letter advice cage absurd amount doctor acoustic avoid letter advice cage above"
	AdamMnemonic    = "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong"
)

// Funding output spent by the example transaction.
const (
	PrevTxID  = "42285d8b1a95cc3888103d3ed0b955910c349bf1a40b1ae53e4419afc3bd5deb"
	PrevVout  = 0
	PrevValue = int64(1000000000)

	Fee = int64(100000)

	// Destination is a legacy regtest address receiving the spent funds.
	Destination = "mi3EaoRwuCQLeyaGKejXQFMxsY1FUNAS26"
)

// Mnemonics returns the cosigner mnemonics in policy order.
func Mnemonics() []string {
	return []string{SatoshiMnemonic, HalMnemonic, AdamMnemonic}
}

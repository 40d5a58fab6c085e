/*
Package hd implements hierarchical deterministic keys.

A mnemonic is stretched into a seed, the seed creates the master node of a
key tree and every node can derive children by index. Private nodes derive
both hardened and normal children, public nodes only normal ones. For normal
children the public child of a public node is the same as the public part of
the private child, which allows sharing an account public key while keeping
the private keys secret.

The mnemonic wordlist and checksum follow BIP39, the tree follows BIP32.
*/
package hd

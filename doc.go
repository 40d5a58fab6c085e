/*
Package cosign defines the values shared by all parts of the threshold signing
workflow: the network a key, address or transaction belongs to and the
reference to a previous output that is being spent.

The workflow itself lives in sub packages. Keys are derived with crypto/hd,
the spending policy is built with x/multisig, the spending transaction is
assembled and finalized with x/spend and partial signatures are produced and
checked with x/sigs.

None of the packages select a network implicitly. Every call that produces or
consumes an encoded value is given a Network.
*/
package cosign

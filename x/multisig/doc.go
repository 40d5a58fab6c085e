/*
Package multisig builds m-of-n threshold spending policies.

A policy is a bare multisig script listing n public keys in the agreed order
and requiring m signatures. The script is never used as an output directly.
It is committed to by a witness program, either native (P2WSH) or nested in a
script hash output (P2SH-P2WSH), and revealed as the last witness element
when spending.

Public keys are not sorted. The order given by the caller is the order in the
script and changing it changes the address.
*/
package multisig

/*
Package sigs creates and checks partial signatures of a spending transaction.

A partial signature is produced by one participant for one input. It commits
to the input digest of the transaction being built, so any later change of
the transaction invalidates it. Signatures of an input are kept in a Set,
ordered by public key, from which the finalizer picks the ones it needs.
*/
package sigs

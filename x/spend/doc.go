/*
Package spend builds and finalizes transactions spending multisig witness
outputs.

A Template collects the inputs and outputs of the spending transaction,
computes the digest every participant signs, records verified partial
signatures and, once enough signatures are present, assembles the witness of
each input. The final transaction is extracted as wire bytes.

The template moves forward through the stages

	Created -> InputsAdded -> OutputsAdded -> PartiallySigned -> ReadySigned -> Finalized -> Extracted

Inputs and outputs can be changed only until the first signature is
recorded, because every signature commits to the whole transaction.

Templates are exchanged between participants as BIP174 packets, see Packet
and FromPacket.
*/
package spend

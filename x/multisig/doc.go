/*
Package multisig implements wallets that execute transactions approved by a
threshold of their signers.

A wallet is configured with a set of signer addresses and a threshold. Any
current signer can propose a transaction for a destination. Signers confirm
proposals one at a time, and the confirmation that brings the number of
confirming current signers up to the threshold executes the transaction by
handing it to the destination handler. A transaction is executed at most
once and is never deleted.

Every operation of a wallet is serialized and runs inside a store savepoint.
If the destination handler fails, the confirming call is reverted as a
whole: the confirmation is not recorded, the transaction stays pending and
the caller may retry later.

Signer set management is either performed directly by the wallet owner
(OwnerPolicy) or by the signers themselves (SignerSetPolicy), in which case a
management message is proposed as a transaction whose destination is the
wallet's own address.
*/
package multisig

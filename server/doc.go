/*
Package server exposes multisig wallets over a JSON HTTP API.

Read requests are public. Every request that changes the state of a wallet
must carry a signed envelope

	{"body": {...}, "signature": {"pubkey": "...", "sequence": 0, "signature": "..."}}

where the signature is created with sigs.Sign over the raw body bytes. Each
body names the wallet (and the transaction, if any) it applies to, so that a
signed request cannot be replayed against a different resource.
*/
package server

/*
Package sigs authenticates requests signed with ed25519 keys.

Every signature is made over the request body together with the chain id and
a per key sequence number. The sequence is stored and incremented on every
successful verification so a signed request cannot be replayed.
*/
package sigs

/*
Package commands implements the init and start commands of the msig daemon.

A home directory holds the daemon key (key.json), the genesis file
(genesis.json) and the persisted state (msig.db). The genesis is applied
only when the state is empty, so restarting the daemon keeps all
transactions and signer set changes.
*/
package commands

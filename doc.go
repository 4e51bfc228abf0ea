/*
Package msig defines the common interfaces used to tie together the
multi-signature wallet packages, as well as implementations of the simpler
components (when interfaces would be too much overhead).

Context is passed through context.Context between the transport layer, the
authentication layer and the wallets. The package defines common keys to
store info in it, such as the chain id and the logger. Each extension, such
as x/sigs, may add its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level modules
overwriting the value (eg. chain id).
*/
package msig

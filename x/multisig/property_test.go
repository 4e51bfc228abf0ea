package multisig

import (
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestWalletInvariants runs random operation sequences against a wallet and
// checks after every step that
//   - 1 <= threshold <= number of signers,
//   - a confirmation executes a transaction if and only if it brings the
//     counted confirmations up to the threshold,
//   - executed transactions reject confirmations and revocations,
//   - every executed transaction reached the destination exactly once,
//   - ids are handed out in order without gaps.
func TestWalletInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("wallet invariants hold for any operation sequence", prop.ForAll(
		func(steps []uint16) bool {
			f := newFixture(t, 3, 2, OwnerPolicy)
			pool := make([]msig.Condition, 6)
			for i := range pool {
				pool[i] = msigtest.SeqCondition(byte(i + 1))
			}
			var nextID int64

			for _, v := range steps {
				kind, arg := v%6, int(v/6)
				who := pool[arg%len(pool)]
				ctx := f.auth.SetConditions(ctxBackground(), who)
				c, err := f.wallet.Config()
				if err != nil {
					t.Logf("config: %+v", err)
					return false
				}
				count, _ := f.wallet.TransactionCount()
				id := int64(0)
				if count > 0 {
					id = int64(arg/7) % count
				}

				switch kind {
				case 0:
					_ = f.wallet.AddSigner(f.asOwner(), who.Address())
				case 1:
					_ = f.wallet.RemoveSigner(f.asOwner(), who.Address())
				case 2:
					_ = f.wallet.SetThreshold(f.asOwner(), uint32(arg%8))
				case 3:
					got, err := f.wallet.Propose(ctx, f.destAddr, []byte{byte(arg)}, uint64(arg))
					if err == nil {
						if got != nextID {
							t.Logf("want id %d, got %d", nextID, got)
							return false
						}
						nextID++
					} else if c.IsSigner(who.Address()) {
						t.Logf("signer cannot propose: %+v", err)
						return false
					}
				case 4:
					if count == 0 {
						continue
					}
					before, err := f.wallet.Transaction(id)
					if err != nil {
						return false
					}
					err = f.wallet.Confirm(ctx, id)
					after, _ := f.wallet.Transaction(id)
					switch {
					case before.Executed:
						if !ErrAlreadyExecuted.Is(err) && !errors.ErrUnauthorized.Is(err) {
							t.Logf("executed transaction accepted confirmation: %v", err)
							return false
						}
					case err == nil:
						counted := c.countSigners(before.Confirmations) + 1
						if after.Executed != (counted >= int(c.Threshold)) {
							t.Logf("tx %d executed=%v with %d of %d", id, after.Executed, counted, c.Threshold)
							return false
						}
					}
				case 5:
					if count == 0 {
						continue
					}
					before, _ := f.wallet.Transaction(id)
					err := f.wallet.RevokeConfirmation(ctx, id)
					if before != nil && before.Executed && err == nil {
						t.Log("executed transaction accepted revocation")
						return false
					}
				}

				c, err = f.wallet.Config()
				if err != nil {
					return false
				}
				if c.Threshold < 1 || int(c.Threshold) > len(c.Signers) {
					t.Logf("threshold %d with %d signers", c.Threshold, len(c.Signers))
					return false
				}
			}

			var executed int
			for id := int64(0); id < nextID; id++ {
				tx, err := f.wallet.Transaction(id)
				if err != nil {
					return false
				}
				if tx.Executed {
					executed++
				}
			}
			return executed == len(f.dest.Executed()) && executed == f.dest.CallCount()
		},
		gen.SliceOf(gen.UInt16()),
	))

	properties.TestingRun(t)
}

package multisig

import (
	"testing"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest"
	"github.com/iov-one/msig/msigtest/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerSetManagement(t *testing.T) {
	f := newFixture(t, 2, 2, SignerSetPolicy)
	newcomer := msigtest.SeqCondition(50)

	// Direct management is not allowed for this policy.
	err := f.wallet.AddSigner(f.as(1), newcomer.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)

	payload, err := AddSignerPayload(newcomer.Address())
	require.NoError(t, err)
	id, err := f.wallet.Propose(f.as(1), f.wallet.Address(), payload, 0)
	require.NoError(t, err)
	require.NoError(t, f.wallet.Confirm(f.as(1), id))
	ok, err := f.wallet.IsSigner(newcomer.Address())
	require.NoError(t, err)
	assert.Equal(t, false, ok)

	require.NoError(t, f.wallet.Confirm(f.as(2), id))
	ok, err = f.wallet.IsSigner(newcomer.Address())
	require.NoError(t, err)
	assert.Equal(t, true, ok)
	n, err := f.wallet.SignerCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Management transactions never reach the router.
	assert.Equal(t, 0, f.dest.CallCount())

	payload, err = SetThresholdPayload(3)
	require.NoError(t, err)
	id, err = f.wallet.Propose(f.as(1), f.wallet.Address(), payload, 0)
	require.NoError(t, err)
	require.NoError(t, f.wallet.Confirm(f.as(1), id))
	require.NoError(t, f.wallet.Confirm(f.as(2), id))
	threshold, err := f.wallet.Threshold()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), threshold)
}

func TestInvalidManagementReverts(t *testing.T) {
	f := newFixture(t, 2, 2, SignerSetPolicy)

	payload, err := RemoveSignerPayload(f.signers[0].Address())
	require.NoError(t, err)
	id, err := f.wallet.Propose(f.as(1), f.wallet.Address(), payload, 0)
	require.NoError(t, err)
	require.NoError(t, f.wallet.Confirm(f.as(1), id))

	// Removal would break the threshold, so execution fails.
	err = f.wallet.Confirm(f.as(2), id)
	assert.IsErr(t, ErrExecutionFailed, err)
	n, err := f.wallet.SignerCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Garbage payload fails too.
	id, err = f.wallet.Propose(f.as(1), f.wallet.Address(), []byte("garbage"), 0)
	require.NoError(t, err)
	require.NoError(t, f.wallet.Confirm(f.as(1), id))
	assert.IsErr(t, ErrExecutionFailed, f.wallet.Confirm(f.as(2), id))
}

func TestOwnerManagement(t *testing.T) {
	f := newFixture(t, 2, 1, OwnerPolicy)
	s3 := msigtest.SeqCondition(30).Address()
	newOwner := msigtest.SeqCondition(31)

	assert.IsErr(t, errors.ErrUnauthorized, f.wallet.AddSigner(f.as(1), s3))
	assert.Nil(t, f.wallet.AddSigner(f.asOwner(), s3))
	assert.IsErr(t, ErrDuplicateSigner, f.wallet.AddSigner(f.asOwner(), s3))
	assert.IsErr(t, errors.ErrInput, f.wallet.AddSigner(f.asOwner(), msig.Address("short")))
	assert.IsErr(t, ErrUnknownSigner, f.wallet.RemoveSigner(f.asOwner(), msigtest.SeqCondition(77).Address()))

	assert.IsErr(t, ErrThresholdViolation, f.wallet.SetThreshold(f.asOwner(), 0))
	assert.IsErr(t, ErrThresholdViolation, f.wallet.SetThreshold(f.asOwner(), 4))
	assert.Nil(t, f.wallet.SetThreshold(f.asOwner(), 3))

	assert.Nil(t, f.wallet.TransferOwnership(f.asOwner(), newOwner.Address()))
	owner, err := f.wallet.Owner()
	require.NoError(t, err)
	assert.Equal(t, newOwner.Address(), owner)

	// The previous owner lost the rights.
	assert.IsErr(t, errors.ErrUnauthorized, f.wallet.SetThreshold(f.asOwner(), 2))
	ctx := f.auth.SetConditions(f.as(1), newOwner)
	assert.Nil(t, f.wallet.SetThreshold(ctx, 2))
}

func TestOwnerWalletRejectsManagementTransactions(t *testing.T) {
	f := newFixture(t, 2, 1, OwnerPolicy)
	intruder := msigtest.SeqCondition(60).Address()

	payload, err := AddSignerPayload(intruder)
	require.NoError(t, err)
	_, err = f.wallet.Propose(f.as(1), f.wallet.Address(), payload, 0)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// No id was consumed and the signer set is unchanged.
	n, err := f.wallet.TransactionCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	ok, err := f.wallet.IsSigner(intruder)
	require.NoError(t, err)
	assert.Equal(t, false, ok)
}

func TestOwnerWalletDoesNotExecuteStoredManagementTransaction(t *testing.T) {
	f := newFixture(t, 2, 1, OwnerPolicy)
	intruder := msigtest.SeqCondition(61).Address()

	payload, err := AddSignerPayload(intruder)
	require.NoError(t, err)
	tx := &Transaction{
		ID:          0,
		Destination: f.wallet.Address(),
		Payload:     payload,
		Proposer:    f.signers[0].Address(),
	}
	require.NoError(t, transactions.Put(f.db, txKey("treasury", 0), tx))

	err = f.wallet.Confirm(f.as(1), 0)
	assert.IsErr(t, ErrExecutionFailed, err)
	assert.Equal(t, false, f.tx(t, 0).Executed)
	ok, err := f.wallet.IsSigner(intruder)
	require.NoError(t, err)
	assert.Equal(t, false, ok)
}

func TestSignerSetWalletHasNoOwnerTransfer(t *testing.T) {
	f := newFixture(t, 2, 1, SignerSetPolicy)
	err := f.wallet.TransferOwnership(f.as(1), msigtest.SeqCondition(9).Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestManagementMsgValidate(t *testing.T) {
	addr := msigtest.SeqCondition(1).Address()
	cases := map[string]struct {
		msg     ManagementMsg
		wantErr *errors.Error
	}{
		"add":          {msg: ManagementMsg{AddSigner: addr}},
		"remove":       {msg: ManagementMsg{RemoveSigner: addr}},
		"threshold":    {msg: ManagementMsg{SetThreshold: 2}},
		"empty":        {msg: ManagementMsg{}, wantErr: errors.ErrMsg},
		"two changes":  {msg: ManagementMsg{AddSigner: addr, SetThreshold: 1}, wantErr: errors.ErrMsg},
		"invalid addr": {msg: ManagementMsg{AddSigner: msig.Address{1}}, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
			if tc.wantErr != nil {
				return
			}
			raw, err := tc.msg.Marshal()
			require.NoError(t, err)
			got, err := UnmarshalManagementMsg(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.msg.SetThreshold, got.SetThreshold)
			assert.Equal(t, true, got.AddSigner.Equals(tc.msg.AddSigner))
			assert.Equal(t, true, got.RemoveSigner.Equals(tc.msg.RemoveSigner))
		})
	}
}

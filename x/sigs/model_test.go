package sigs

import (
	"testing"

	"github.com/iov-one/msig/errors"
	"github.com/iov-one/msig/msigtest/assert"
)

func TestUserDataValidate(t *testing.T) {
	cases := map[string]struct {
		user    UserData
		wantErr *errors.Error
	}{
		"new user":             {user: UserData{}},
		"user with key":        {user: UserData{Pubkey: []byte{1}, Sequence: 5}},
		"negative sequence":    {user: UserData{Sequence: -1}, wantErr: ErrInvalidSequence},
		"sequence without key": {user: UserData{Sequence: 3}, wantErr: ErrInvalidSequence},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.FieldError(t, tc.user.Validate(), "Sequence", tc.wantErr)
		})
	}
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := UserData{Pubkey: []byte{1}}
	assert.Nil(t, u.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), u.Sequence)
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(0))

	u.Sequence = maxSequenceValue
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
}

package chain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcDataError struct {
	msg  string
	data interface{}
}

func (e *rpcDataError) Error() string          { return e.msg }
func (e *rpcDataError) ErrorData() interface{} { return e.data }

// Error(string) selector followed by the ABI encoding of "amount exceeds releasable".
func encodedRevert() string {
	reason := "amount exceeds releasable"
	data := []byte{0x08, 0xc3, 0x79, 0xa0}
	offset := make([]byte, 32)
	offset[31] = 0x20
	length := make([]byte, 32)
	length[31] = byte(len(reason))
	body := make([]byte, 32)
	copy(body, reason)
	data = append(data, offset...)
	data = append(data, length...)
	data = append(data, body...)
	return hexutil.Encode(data)
}

func TestClassifySubmitError(t *testing.T) {
	assert.Nil(t, classifySubmitError(nil))

	err := classifySubmitError(errors.New("User rejected the request."))
	assert.ErrorIs(t, err, ErrUserRejected)

	err = classifySubmitError(&rpcDataError{msg: "execution reverted", data: encodedRevert()})
	var revert *RevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "amount exceeds releasable", revert.Reason)
	assert.Equal(t, "transaction reverted: amount exceeds releasable", revert.Error())

	err = classifySubmitError(fmt.Errorf("estimate: %w", errors.New("execution reverted")))
	require.ErrorAs(t, err, &revert)

	plain := errors.New("nonce too low")
	assert.Same(t, plain, classifySubmitError(plain))
}

func TestRevertErrorWithoutReason(t *testing.T) {
	assert.Equal(t, "transaction reverted", (&RevertError{}).Error())
}

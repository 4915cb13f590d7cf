package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrUserRejected is returned when the wallet holder declines to sign.
	ErrUserRejected = errors.New("transaction rejected by wallet")
	ErrNoSigner     = errors.New("no signer configured")
	ErrNotMined     = errors.New("transaction not mined")
)

// ReadError wraps any failed contract read. Callers show it as "could not load data".
type ReadError struct {
	Method string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not load data: %s: %v", e.Method, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// RevertError is a contract-level rejection of a release, detected either while
// estimating gas or from a failed receipt.
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "transaction reverted"
	}
	return "transaction reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error { return e.Err }

var rejectionMarkers = []string{
	"user rejected the request",
	"user denied",
	"request denied",
}

// classifySubmitError maps signer and node errors onto the release error taxonomy.
func classifySubmitError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUserRejected) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rejectionMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := revertReason(dataErr.ErrorData()); ok {
			return &RevertError{Reason: reason, Err: err}
		}
	}
	if strings.Contains(msg, "execution reverted") {
		reason := strings.TrimSpace(strings.TrimPrefix(err.Error(), "execution reverted"))
		reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
		return &RevertError{Reason: reason, Err: err}
	}
	return err
}

func revertReason(data interface{}) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = v
	default:
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}

package ledger

import "errors"

// Rejections returned by ledger operations. Each one is terminal for the
// request that caused it and leaves the document untouched.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrMalformedRequest    = errors.New("malformed request")
	ErrBanned              = errors.New("user is banned")
	ErrWithdrawClosed      = errors.New("withdrawals are closed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWithdrawLimit       = errors.New("withdraw exceeds per-request limit")
	ErrEmptyMessage        = errors.New("empty message")
	ErrUserNotFound        = errors.New("user not found")
)

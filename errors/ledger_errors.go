package errors

import (
	stderrors "errors"

	"ledgerd/jsonx"
)

// LedgerErrorCode represents standardized error codes for ledger operations
type LedgerErrorCode string

const (
	// General errors
	ErrCodeInternal LedgerErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidRequest     LedgerErrorCode = "invalid_request"
	ErrCodeInvalidTransaction LedgerErrorCode = "invalid_transaction"
	ErrCodeInvalidAddress     LedgerErrorCode = "invalid_address"
	ErrCodeInvalidAmount      LedgerErrorCode = "invalid_amount"
	ErrCodeInvalidDifficulty  LedgerErrorCode = "invalid_difficulty"

	// Engine errors
	ErrCodeMiningExhausted LedgerErrorCode = "mining_exhausted"
	ErrCodeChainEmpty      LedgerErrorCode = "chain_empty"
	ErrCodeBlockNotFound   LedgerErrorCode = "block_not_found"
	ErrCodePoolFull        LedgerErrorCode = "pool_full"

	// Persistence errors
	ErrCodePersistence LedgerErrorCode = "persistence_failed"
)

// LedgerError is a standardized code-carrying error surfaced to the
// collaborator layers.
type LedgerError struct {
	Code    LedgerErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	out, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(out)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInvalidRequest     = "Request format is invalid"
	ErrMsgInvalidTransaction = "Transaction data is invalid"
	ErrMsgInvalidAddress     = "Address must be a non-empty string"
	ErrMsgInvalidAmount      = "Amount must be greater than zero"
	ErrMsgInvalidDifficulty  = "Difficulty must be between 1 and 10"
	ErrMsgMiningExhausted    = "Nonce search exceeded the configured cap"
	ErrMsgChainEmpty         = "Chain accessed before initialization"
	ErrMsgBlockNotFound      = "Block does not exist"
	ErrMsgPoolFull           = "Transaction pool is full, please try again"
	ErrMsgPersistence        = "Ledger state could not be saved"
	ErrMsgInternal           = "Server error, please try again"
)

// NewError creates a new LedgerError and returns it as error interface
func NewError(code LedgerErrorCode, message string) error {
	return &LedgerError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the error code, or internal_error for foreign errors.
func CodeOf(err error) LedgerErrorCode {
	var le *LedgerError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given ledger error code.
func HasCode(err error, code LedgerErrorCode) bool {
	var le *LedgerError
	return stderrors.As(err, &le) && le.Code == code
}

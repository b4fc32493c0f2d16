package chain

import "errors"

var (
	ErrChainClosed        = errors.New("chain closed")
	ErrInsufficientFunds  = errors.New("insufficient funds for gas * price + value")
	ErrGasOverflow        = errors.New("gas cost overflow")
	ErrReverted           = errors.New("execution reverted")
	ErrWriteProtection    = errors.New("write protection")
	ErrCallDepth          = errors.New("max call depth exceeded")
	ErrTransferFailed     = errors.New("transfer failed")
	ErrContractNotFound   = errors.New("contract not found")
	ErrDeploymentNotFound = errors.New("deployment not found")
)

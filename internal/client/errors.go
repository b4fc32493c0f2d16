package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/marketplace"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
	"github.com/ZilDuck/nft-marketplace/internal/server"
	"github.com/gorilla/rpc/v2/json2"
)

var ErrUnexpectedStatus = errors.New("unexpected http status")

// RPCError is an error returned by the node. Known revert reasons resolve to
// the contract error, so errors.Is works across the wire.
type RPCError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
	ID      string `json:"id,omitempty"`

	causes []error
}

// Error returns a string describing the RPC error.
func (e *RPCError) Error() string {
	return fmt.Sprintf("%d:%s", e.Code, e.Message)
}

func (e *RPCError) Unwrap() []error {
	return e.causes
}

func newRPCError(jsonErr *json2.Error) *RPCError {
	rpcErr := &RPCError{Code: int(jsonErr.Code), Message: jsonErr.Message}

	var data server.ErrorData
	if err := decodeData(jsonErr.Data, &data); err == nil {
		rpcErr.Reason = data.Reason
		rpcErr.ID = data.ID
	}

	if strings.HasPrefix(rpcErr.Message, chain.ErrReverted.Error()) {
		rpcErr.causes = append(rpcErr.causes, chain.ErrReverted)
	}
	if strings.HasPrefix(rpcErr.Message, entity.ErrInvalidAddress.Error()) {
		rpcErr.causes = append(rpcErr.causes, entity.ErrInvalidAddress)
	}
	if cause, ok := causeByReason(rpcErr.Reason); ok {
		rpcErr.causes = append(rpcErr.causes, cause)
	}
	return rpcErr
}

func causeByReason(reason string) (error, bool) {
	if reason == "" {
		return nil, false
	}
	if cause, ok := marketplace.ErrorByReason(reason); ok {
		return cause, true
	}
	if cause, ok := nft.ErrorByReason(reason); ok {
		return cause, true
	}
	if reason == chain.ErrInsufficientFunds.Error() {
		return chain.ErrInsufficientFunds, true
	}
	return nil, false
}

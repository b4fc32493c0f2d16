package server

import (
	"errors"
	"fmt"

	"github.com/ZilDuck/nft-marketplace/internal/chain"
	"github.com/ZilDuck/nft-marketplace/internal/dev"
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ZilDuck/nft-marketplace/internal/marketplace"
	"github.com/ZilDuck/nft-marketplace/internal/nft"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ErrorData is carried in the data member of a JSON-RPC error.
type ErrorData struct {
	Reason string `json:"reason,omitempty"`
	ID     string `json:"id"`
}

func revertReason(err error) string {
	if reason := marketplace.RevertReason(err); reason != "" {
		return reason
	}
	if reason := nft.RevertReason(err); reason != "" {
		return reason
	}
	if errors.Is(err, chain.ErrInsufficientFunds) {
		return chain.ErrInsufficientFunds.Error()
	}
	return ""
}

// rpcError logs err under a fresh id and converts it into the JSON-RPC error
// returned to the caller.
func rpcError(method string, err error, extra map[string]interface{}) error {
	code := json2.E_SERVER
	if errors.Is(err, entity.ErrInvalidAddress) || errors.Is(err, ErrInvalidAmount) {
		code = json2.E_BAD_PARAMS
	}

	devErr := dev.NewError("Server", method, err, extra)
	zap.L().With(
		zap.String("id", devErr.ID),
		zap.String("method", method),
		zap.Any("extra", extra),
		zap.Error(err),
	).Warn("Server: Call failed")

	return &json2.Error{
		Code:    code,
		Message: err.Error(),
		Data:    ErrorData{Reason: revertReason(err), ID: devErr.ID},
	}
}

func parseAddress(field, value string) (common.Address, error) {
	address, err := entity.ParseAddress(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s %q", err, field, value)
	}
	return address, nil
}

func parseAmount(field, value string) (*uint256.Int, error) {
	if value == "" {
		return new(uint256.Int), nil
	}
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidAmount, field, value)
	}
	return amount, nil
}

package entity

import (
	"errors"
	"strings"

	"github.com/Zilliqa/gozilliqa-sdk/bech32"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
)

// ParseAddress accepts a 0x prefixed hex address or a zil1 bech32 address.
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)

	if strings.HasPrefix(strings.ToLower(address), "zil1") {
		hex, err := bech32.FromBech32Addr(address)
		if err != nil {
			return common.Address{}, ErrInvalidAddress
		}
		address = hex
	}

	if !strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X") {
		address = "0x" + address
	}

	if !common.IsHexAddress(address) {
		return common.Address{}, ErrInvalidAddress
	}

	return common.HexToAddress(address), nil
}

func IsZeroAddress(address common.Address) bool {
	return address == common.Address{}
}

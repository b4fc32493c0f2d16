package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DevAccounts returns n deterministic addresses for a local dev chain.
func DevAccounts(n int) []common.Address {
	accounts := make([]common.Address, n)
	for i := 0; i < n; i++ {
		accounts[i] = common.BytesToAddress(crypto.Keccak256([]byte(fmt.Sprintf("nft-marketplace-dev-account-%d", i))))
	}
	return accounts
}

package chain

import (
	"github.com/ZilDuck/nft-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Status uint8

const (
	StatusReverted   Status = 0
	StatusSuccessful Status = 1
)

func (s Status) String() string {
	if s == StatusSuccessful {
		return "successful"
	}
	return "reverted"
}

type Log struct {
	Address  common.Address `json:"address"`
	Topic    common.Hash    `json:"topic"`
	Name     string         `json:"event"`
	Event    entity.Event   `json:"args"`
	BlockNum uint64         `json:"blockNumber"`
	TxHash   common.Hash    `json:"transactionHash"`
	Index    uint           `json:"logIndex"`
}

type Receipt struct {
	TxHash   common.Hash    `json:"transactionHash"`
	BlockNum uint64         `json:"blockNumber"`
	From     common.Address `json:"from"`
	To       common.Address `json:"to"`
	Method   string         `json:"method"`
	Status   Status         `json:"status"`
	GasUsed  uint64         `json:"gasUsed"`
	GasCost  *uint256.Int   `json:"gasCost"`
	Logs     []Log          `json:"logs"`
}

func (r Receipt) Successful() bool {
	return r.Status == StatusSuccessful
}

func (r Receipt) LogsByName(name string) []Log {
	logs := make([]Log, 0)
	for _, l := range r.Logs {
		if l.Name == name {
			logs = append(logs, l)
		}
	}
	return logs
}

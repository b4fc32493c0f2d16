package addressbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var ErrInvalidFile = errors.New("invalid contract addresses file")

// AddressMap lists the deployed addresses of each contract per chain id, in
// the layout the front end reads.
type AddressMap map[string]map[string][]string

func (m AddressMap) Contains(chainId uint64, contractName string, address common.Address) bool {
	for _, existing := range m[strconv.FormatUint(chainId, 10)][contractName] {
		if strings.EqualFold(existing, address.Hex()) {
			return true
		}
	}
	return false
}

// Add appends the address to the contract entry of the chain, creating both
// when absent. It reports whether the map changed.
func (m AddressMap) Add(chainId uint64, contractName string, address common.Address) bool {
	if m.Contains(chainId, contractName, address) {
		return false
	}

	key := strconv.FormatUint(chainId, 10)
	if _, ok := m[key]; !ok {
		m[key] = make(map[string][]string)
	}
	m[key][contractName] = append(m[key][contractName], address.Hex())
	return true
}

type Publisher interface {
	Publish(chainId uint64, contractName string, address common.Address) (bool, error)
	Read() (AddressMap, error)
}

type publisher struct {
	path string
	mu   sync.Mutex
}

func NewPublisher(path string) Publisher {
	return &publisher{path: path}
}

func (p *publisher) Publish(chainId uint64, contractName string, address common.Address) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	addresses, err := p.Read()
	if err != nil {
		return false, err
	}
	if !addresses.Add(chainId, contractName, address) {
		zap.L().With(zap.Uint64("chainId", chainId), zap.String("contract", contractName), zap.String("address", address.Hex())).Debug("AddressBook: Address already published")
		return false, nil
	}

	if err := p.write(addresses); err != nil {
		return false, err
	}

	zap.L().With(
		zap.Uint64("chainId", chainId),
		zap.String("contract", contractName),
		zap.String("address", address.Hex()),
		zap.String("path", p.path),
	).Info("AddressBook: Address published")

	return true, nil
}

// Read loads the file. A missing or empty file is an empty map.
func (p *publisher) Read() (AddressMap, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(AddressMap), nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return make(AddressMap), nil
	}

	addresses := make(AddressMap)
	if err := json.Unmarshal(data, &addresses); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, p.path, err)
	}
	return addresses, nil
}

func (p *publisher) write(addresses AddressMap) error {
	data, err := json.Marshal(addresses)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), p.path)
}

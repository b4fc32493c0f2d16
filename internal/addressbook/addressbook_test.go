package addressbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marketplaceAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func TestPublishCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constants", "networkMapping.json")
	p := NewPublisher(path)

	changed, err := p.Publish(31337, "NftMarketplace", marketplaceAddr)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"31337":{"NftMarketplace":["0x5FbDB2315678afecb367f032d93F642f64180aa3"]}}`, string(data))
}

func TestPublishIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networkMapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"31337":{"NftMarketplace":["0x5fbdb2315678afecb367f032d93f642f64180aa3"]}}`), 0o644))
	p := NewPublisher(path)

	changed, err := p.Publish(31337, "NftMarketplace", marketplaceAddr)
	require.NoError(t, err)
	assert.False(t, changed, "addresses compare case insensitively")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"31337":{"NftMarketplace":["0x5fbdb2315678afecb367f032d93f642f64180aa3"]}}`, string(data))
}

func TestPublishAppendsAndKeepsOtherChains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networkMapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"4":{"NftMarketplace":["0x0000000000000000000000000000000000000001"]},"31337":{"NftMarketplace":["0x0000000000000000000000000000000000000002"]}}`), 0o644))
	p := NewPublisher(path)

	changed, err := p.Publish(31337, "NftMarketplace", marketplaceAddr)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = p.Publish(5, "BasicNft", marketplaceAddr)
	require.NoError(t, err)
	assert.True(t, changed)

	addresses, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"0x0000000000000000000000000000000000000001"}, addresses["4"]["NftMarketplace"])
	assert.Equal(t, []string{"0x0000000000000000000000000000000000000002", marketplaceAddr.Hex()}, addresses["31337"]["NftMarketplace"])
	assert.Equal(t, []string{marketplaceAddr.Hex()}, addresses["5"]["BasicNft"])
	assert.True(t, addresses.Contains(5, "BasicNft", marketplaceAddr))
}

func TestPublishRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networkMapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "a", "map"]`), 0o644))

	_, err := NewPublisher(path).Publish(31337, "NftMarketplace", marketplaceAddr)
	assert.ErrorIs(t, err, ErrInvalidFile)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["not", "a", "map"]`, string(data))
}

func TestEmptyFileIsEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networkMapping.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))

	addresses, err := NewPublisher(path).Read()
	require.NoError(t, err)
	assert.Empty(t, addresses)
}

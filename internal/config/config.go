package config

import (
	"strings"
	"time"

	"github.com/ZilDuck/nft-marketplace/internal/log"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Env         string
	Debug       bool
	LogPath     string
	Port        string
	EventBuffer int

	Chain    ChainConfig
	Rpc      RpcConfig
	FrontEnd FrontEndConfig
	Aws      AwsConfig
}

type ChainConfig struct {
	ChainID           uint64
	GasPrice          *uint256.Int
	DevAccounts       int
	DevAccountBalance *uint256.Int
}

type RpcConfig struct {
	Url     string
	Timeout time.Duration
	Debug   bool
}

type FrontEndConfig struct {
	Update        bool
	ContractsFile string
}

type AwsConfig struct {
	AccessKey   string
	SecretKey   string
	Region      string
	Endpoint    string
	SqsQueueUrl string
}

func (c AwsConfig) SqsEnabled() bool {
	return c.SqsQueueUrl != ""
}

const (
	defaultGasPrice          = "1000000000"
	defaultDevAccountBalance = "10000000000000000000000"
)

func init() {
	viper.AutomaticEnv()
}

// Init loads the .env file when present and starts the logger.
func Init() {
	envErr := godotenv.Load(".env")

	initLogger()

	if envErr != nil {
		zap.L().With(zap.Error(envErr)).Debug("Config: No .env file loaded")
	}
}

func initLogger() {
	log.NewLogger(Get().LogPath, Get().Debug)
}

func Get() *Config {
	return &Config{
		Env:         getString("ENV", "dev"),
		Debug:       getBool("DEBUG", false),
		LogPath:     getString("LOG_PATH", "./var/marketplace.log"),
		Port:        getString("PORT", "8545"),
		EventBuffer: getInt("EVENT_BUFFER", 256),
		Chain: ChainConfig{
			ChainID:           getUint64("CHAIN_ID", 31337),
			GasPrice:          getUint256("GAS_PRICE", defaultGasPrice),
			DevAccounts:       getInt("DEV_ACCOUNTS", 10),
			DevAccountBalance: getUint256("DEV_ACCOUNT_BALANCE", defaultDevAccountBalance),
		},
		Rpc: RpcConfig{
			Url:     getString("RPC_URL", "http://localhost:8545/rpc"),
			Timeout: time.Duration(getInt("RPC_TIMEOUT", 30)) * time.Second,
			Debug:   getBool("RPC_DEBUG", false),
		},
		FrontEnd: FrontEndConfig{
			Update:        getBool("UPDATE_FRONT_END", false),
			ContractsFile: getString("FRONT_END_CONTRACTS_FILE", "../nextjs-nft-marketplace/constants/networkMapping.json"),
		},
		Aws: AwsConfig{
			AccessKey:   getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey:   getString("AWS_SECRET_KEY_ID", ""),
			Region:      getString("AWS_REGION", "eu-west-1"),
			Endpoint:    getString("AWS_ENDPOINT", ""),
			SqsQueueUrl: getString("AWS_SQS_QUEUE_URL", ""),
		},
	}
}

func getString(key string, defaultValue string) string {
	viper.SetDefault(key, defaultValue)
	return strings.TrimSpace(viper.GetString(key))
}

func getInt(key string, defaultValue int) int {
	viper.SetDefault(key, defaultValue)
	return viper.GetInt(key)
}

func getUint64(key string, defaultValue uint64) uint64 {
	viper.SetDefault(key, defaultValue)
	return viper.GetUint64(key)
}

func getBool(key string, defaultValue bool) bool {
	viper.SetDefault(key, defaultValue)
	return viper.GetBool(key)
}

// getUint256 reads a decimal amount, falling back to the default when the
// value does not parse.
func getUint256(key string, defaultValue string) *uint256.Int {
	if value, err := uint256.FromDecimal(getString(key, defaultValue)); err == nil {
		return value
	}
	return uint256.MustFromDecimal(defaultValue)
}

package config

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the custody state.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ExplorerURLKey is the endpoint of the ledger explorer API.
	ExplorerURLKey = "EXPLORER_URL"
	// WalletIDKey is the identifier of the wallet operations are built for.
	WalletIDKey = "WALLET_ID"
	// DBFilenameKey is the name of the secure store database file inside the
	// datadir.
	DBFilenameKey = "DB_FILENAME"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("custodyd", false)

// InitConfig loads the configuration from the environment, applying defaults.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("CUSTODY")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ExplorerURLKey, "http://localhost:3001")
	vip.SetDefault(DBFilenameKey, "custody.db")

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

// GetString returns the string value for the given config key.
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt returns the int value for the given config key.
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetDatadir returns the data directory of the daemon.
func GetDatadir() string {
	return GetString(DatadirKey)
}

func initDatadir() error {
	datadir := GetDatadir()
	if _, err := os.Stat(datadir); os.IsNotExist(err) {
		return os.MkdirAll(datadir, os.ModeDir|0755)
	}
	return nil
}

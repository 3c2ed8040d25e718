package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/halcyonwallet/custodyd/internal/config"
	"github.com/halcyonwallet/custodyd/internal/core/application"
	"github.com/halcyonwallet/custodyd/internal/infrastructure/explorer"
	"github.com/halcyonwallet/custodyd/pkg/securestore"
	badgersecurestore "github.com/halcyonwallet/custodyd/pkg/securestore/badger"
)

var passwordFlag = &cli.StringFlag{
	Name:     "password",
	Usage:    "password unlocking the secure store",
	Required: true,
}

func main() {
	if err := config.InitConfig(); err != nil {
		fatal(err)
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "custodyd CLI"
	app.Usage = "command line interface for the wallet custody core"
	app.Commands = append(
		app.Commands,
		&listaccounts,
		&addaccount,
		&removeaccount,
		&importkey,
		&validatekey,
		&removekey,
		&pubkey,
		&bindstatus,
		&bind,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// services groups the wired custody components behind a single open call.
type services struct {
	binder *application.BindingService
}

func openStore(ctx *cli.Context) (securestore.SecureStorage, error) {
	store, err := badgersecurestore.NewSecureStorage(
		config.GetDatadir(), config.GetString(config.DBFilenameKey),
	)
	if err != nil {
		return nil, err
	}

	password := []byte(ctx.String("password"))
	if err := store.CreateUnlock(&password); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func openServices(ctx *cli.Context) (*services, func(), error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { store.Close() }

	registry := application.NewAccountRegistry(store)
	vault := application.NewStoredKeyVault(store, registry)

	mainAccount, ok := registry.MainAccount()
	if !ok {
		cleanup()
		return nil, nil, fmt.Errorf("no account registered yet")
	}

	explorerSvc, err := explorer.NewService(
		config.GetString(config.ExplorerURLKey), mainAccount,
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := explorerSvc.Refresh(); err != nil {
		log.WithError(err).Warn("could not fetch the initial account snapshot")
	}

	walletID := config.GetString(config.WalletIDKey)
	if len(walletID) <= 0 {
		walletID = mainAccount
	}

	signer := application.NewSignerService(explorerSvc)
	binder := application.NewBindingService(
		walletID, vault, signer, explorerSvc, explorerSvc,
	)

	return &services{binder}, cleanup, nil
}

func printJSON(v interface{}) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[custodyd] %v\n", err)
	os.Exit(1)
}

package main

import (
	"github.com/urfave/cli/v2"

	"github.com/halcyonwallet/custodyd/internal/core/application"
)

var listaccounts = cli.Command{
	Name:   "listaccounts",
	Usage:  "list all registered accounts",
	Flags:  []cli.Flag{passwordFlag},
	Action: listAccountsAction,
}

var addaccount = cli.Command{
	Name:      "addaccount",
	Usage:     "register a new account identifier",
	ArgsUsage: "<account>",
	Flags:     []cli.Flag{passwordFlag},
	Action:    addAccountAction,
}

var removeaccount = cli.Command{
	Name:      "removeaccount",
	Usage:     "remove an account identifier and its stored key",
	ArgsUsage: "<account>",
	Flags:     []cli.Flag{passwordFlag},
	Action:    removeAccountAction,
}

func listAccountsAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := application.NewAccountRegistry(store)
	printJSON(map[string]interface{}{"accounts": registry.ListAccounts()})

	return nil
}

func addAccountAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := application.NewAccountRegistry(store)
	return registry.AddAccount(ctx.Args().First())
}

func removeAccountAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	account := ctx.Args().First()
	registry := application.NewAccountRegistry(store)
	vault := application.NewStoredKeyVault(store, registry)

	if err := vault.RemoveKey(account); err != nil {
		return err
	}
	return registry.RemoveAccount(account)
}

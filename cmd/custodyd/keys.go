package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/halcyonwallet/custodyd/internal/core/application"
	"github.com/halcyonwallet/custodyd/internal/core/ports"
	"github.com/halcyonwallet/custodyd/pkg/keypair"
)

// keyDeriver turns a password into signing key material before any vault
// save or validation.
var keyDeriver ports.KeyDeriver = keypair.PasswordDeriver{}

var importkey = cli.Command{
	Name:      "importkey",
	Usage:     "derive a signing key from a password and store it for an account",
	ArgsUsage: "<account>",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:     "key-password",
			Usage:    "password the signing key is derived from",
			Required: true,
		},
	},
	Action: importKeyAction,
}

var validatekey = cli.Command{
	Name:      "validatekey",
	Usage:     "check that a password derives the key stored for an account",
	ArgsUsage: "<account>",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:     "key-password",
			Usage:    "password the signing key is derived from",
			Required: true,
		},
	},
	Action: validateKeyAction,
}

var removekey = cli.Command{
	Name:      "removekey",
	Usage:     "remove the stored signing key of an account",
	ArgsUsage: "<account>",
	Flags:     []cli.Flag{passwordFlag},
	Action:    removeKeyAction,
}

var pubkey = cli.Command{
	Name:   "pubkey",
	Usage:  "print the public key of the main account",
	Flags:  []cli.Flag{passwordFlag},
	Action: pubKeyAction,
}

func importKeyAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	account := ctx.Args().First()
	registry := application.NewAccountRegistry(store)
	vault := application.NewStoredKeyVault(store, registry)

	key, err := keyDeriver.DeriveFromPassword(ctx.String("key-password"), account)
	if err != nil {
		return err
	}

	// if a key is already stored for the account, require the password to
	// derive the very same key instead of silently replacing it.
	if vault.HasKey(account) {
		if !vault.ValidateDerivedKey(key, account) {
			return fmt.Errorf(
				"a different key is already stored for account %s", account,
			)
		}
		return nil
	}

	if err := vault.SaveKey(key, account); err != nil {
		return err
	}

	printJSON(map[string]string{
		"account":    account,
		"public_key": key.PublicKeyString(),
	})
	return nil
}

func validateKeyAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	account := ctx.Args().First()
	registry := application.NewAccountRegistry(store)
	vault := application.NewStoredKeyVault(store, registry)

	key, err := keyDeriver.DeriveFromPassword(ctx.String("key-password"), account)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"account": account,
		"valid":   vault.ValidateDerivedKey(key, account),
	})
	return nil
}

func removeKeyAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := application.NewAccountRegistry(store)
	vault := application.NewStoredKeyVault(store, registry)
	return vault.RemoveKey(ctx.Args().First())
}

func pubKeyAction(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := application.NewAccountRegistry(store)
	vault := application.NewStoredKeyVault(store, registry)

	publicKey := vault.PublicKeyString()
	if len(publicKey) <= 0 {
		return fmt.Errorf("no key stored for the main account")
	}

	printJSON(map[string]string{"public_key": publicKey})
	return nil
}

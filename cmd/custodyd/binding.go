package main

import (
	"github.com/urfave/cli/v2"

	"github.com/halcyonwallet/custodyd/internal/core/domain"
)

var bindstatus = cli.Command{
	Name:      "bindstatus",
	Usage:     "print the binding status for an external system type",
	ArgsUsage: "<system-type>",
	Flags:     []cli.Flag{passwordFlag},
	Action:    bindStatusAction,
}

var bind = cli.Command{
	Name:      "bind",
	Usage:     "link the wallet account to an external system",
	ArgsUsage: "<system-type>",
	Flags:     []cli.Flag{passwordFlag},
	Action:    bindAction,
}

func bindStatusAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	systemType := domain.SystemType(ctx.Args().First())
	printJSON(map[string]string{
		"system": string(systemType),
		"status": svc.binder.CurrentStatus(systemType).String(),
	})
	return nil
}

func bindAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	systemType := domain.SystemType(ctx.Args().First())

	done := make(chan error, 1)
	svc.binder.Bind(systemType, func(err error) { done <- err })

	if err := <-done; err != nil {
		return err
	}

	printJSON(map[string]string{
		"system": string(systemType),
		"status": svc.binder.CurrentStatus(systemType).String(),
	})
	return nil
}

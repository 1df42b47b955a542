package main

import (
	"context"

	"go.uber.org/zap"
)

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if err := migrateFunc(ctx, cli.db, args[0], args[1:]...); err != nil {
		return err
	}
	cli.logger.Info("migrate finished", zap.String("command", args[0]))
	return nil
}

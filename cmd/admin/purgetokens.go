package main

import (
	"context"
	"fmt"
	"time"
)

func (cli *commandLine) purgeTokens(ctx context.Context) error {
	n, err := cli.users.PurgeRevokedTokens(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "purged %d revoked tokens\n", n)
	return nil
}

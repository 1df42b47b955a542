package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/database"
)

var (
	readPasswordFunc = term.ReadPassword      // mockable
	migrateFunc      = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type adminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error)
}

type commandLine struct {
	db     *sql.DB
	users  adminUserRepository
	logger *zap.Logger
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                 - run goose migrations (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME [-role ROLE]           - create a user or reset its password")
	fmt.Fprintln(cli.out, "  purge-tokens                                           - drop expired token revocations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserRole := addUserCmd.String("role", string(models.RoleAdmin), "One of client, manager, admin.")

	ctx := context.Background()
	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		role := models.UserRole(*addUserRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q", *addUserRole)
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) < 6 {
			return errors.New("password must be at least 6 characters")
		}
		return cli.addUser(ctx, *addUserName, *addUserEmail, string(pwd), role)
	case "purge-tokens":
		return cli.purgeTokens(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	nextID  int64
	purged  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) error {
	clone := *user
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUsers) PurgeRevokedTokens(context.Context, time.Time) (int64, error) {
	return f.purged, nil
}

func setup(t *testing.T) (*commandLine, *fakeUsers, *bytes.Buffer) {
	t.Helper()
	users := newFakeUsers()
	out := &bytes.Buffer{}
	return &commandLine{users: users, logger: zap.NewNop(), out: out}, users, out
}

func withPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	prev := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = prev })
}

func TestCommandLineHelp(t *testing.T) {
	cli, _, out := setup(t)

	assert.ErrorIs(t, cli.run([]string{"admin"}), errHelp)
	assert.Contains(t, out.String(), "Usage:")
	assert.ErrorIs(t, cli.run([]string{"admin", "lol"}), errHelp)
	assert.ErrorIs(t, cli.run([]string{"admin", "migrate"}), errHelp)
}

func TestCommandLineMigrate(t *testing.T) {
	cli, _, _ := setup(t)

	var gotCommand string
	var gotArgs []string
	prev := migrateFunc
	migrateFunc = func(_ context.Context, _ *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "down", "status", "version", "redo", "reset":
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a version", command)
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		gotCommand, gotArgs = command, args
		return nil
	}
	t.Cleanup(func() { migrateFunc = prev })

	require.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
	assert.Equal(t, "up", gotCommand)
	assert.Empty(t, gotArgs)

	require.NoError(t, cli.run([]string{"admin", "migrate", "up-to", "2"}))
	assert.Equal(t, []string{"2"}, gotArgs)

	assert.EqualError(t, cli.run([]string{"admin", "migrate", "down-to"}), "down-to requires a version")
	assert.EqualError(t, cli.run([]string{"admin", "migrate", "lol"}), `"lol": no such command`)
}

func TestCommandLineAddUser(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		password   string
		readErr    error
		wantErr    error
		wantErrStr string
	}{
		{name: "missing email", args: []string{"admin", "adduser", "-name", "Root"}, wantErr: errHelp},
		{name: "missing name", args: []string{"admin", "adduser", "-email", "root@example.com"}, wantErr: errHelp},
		{name: "bad role", args: []string{"admin", "adduser", "-email", "root@example.com", "-name", "Root", "-role", "owner"}, wantErrStr: `invalid role "owner"`},
		{name: "short password", args: []string{"admin", "adduser", "-email", "root@example.com", "-name", "Root"}, password: "abc", wantErrStr: "password must be at least 6 characters"},
		{name: "read failure", args: []string{"admin", "adduser", "-email", "root@example.com", "-name", "Root"}, readErr: errors.New("no tty"), wantErrStr: "no tty"},
		{name: "creates admin", args: []string{"admin", "adduser", "-email", "Root@Example.com", "-name", "Root"}, password: "secret1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cli, users, _ := setup(t)
			withPassword(t, tc.password, tc.readErr)

			err := cli.run(tc.args)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantErrStr != "":
				assert.EqualError(t, err, tc.wantErrStr)
			default:
				require.NoError(t, err)
				usr, ok := users.byEmail["root@example.com"]
				require.True(t, ok)
				assert.Equal(t, models.RoleAdmin, usr.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(tc.password)))
			}
		})
	}
}

func TestCommandLineAddUserResetsExisting(t *testing.T) {
	cli, users, _ := setup(t)
	require.NoError(t, users.Create(context.Background(), &models.User{Name: "Old", Email: "mgr@example.com", Role: models.RoleClient, PasswordHash: "x"}))
	withPassword(t, "newpass", nil)

	require.NoError(t, cli.run([]string{"admin", "adduser", "-email", "mgr@example.com", "-name", "Manager", "-role", "manager"}))

	usr := users.byEmail["mgr@example.com"]
	assert.Equal(t, int64(1), usr.ID)
	assert.Equal(t, "Manager", usr.Name)
	assert.Equal(t, models.RoleManager, usr.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte("newpass")))
}

func TestCommandLinePurgeTokens(t *testing.T) {
	cli, users, out := setup(t)
	users.purged = 4

	require.NoError(t, cli.run([]string{"admin", "purge-tokens"}))
	assert.Contains(t, out.String(), "purged 4 revoked tokens")
}

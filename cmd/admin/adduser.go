package main

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
)

// addUser creates the user, or updates name, role and password when the email is taken.
func (cli *commandLine) addUser(ctx context.Context, name, email, pwd string, role models.UserRole) error {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	usr, err := cli.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		usr = &models.User{Name: name, Email: email, Role: role, PasswordHash: string(hash)}
		if err := cli.users.Create(ctx, usr); err != nil {
			return err
		}
		cli.logger.Info("user created", zap.Int64("id", usr.ID), zap.String("role", string(role)))
		return nil
	case err != nil:
		return err
	}

	usr.Name = name
	usr.Role = role
	usr.PasswordHash = string(hash)
	if err := cli.users.Update(ctx, usr); err != nil {
		return err
	}
	cli.logger.Info("user updated", zap.Int64("id", usr.ID), zap.String("role", string(role)))
	return nil
}

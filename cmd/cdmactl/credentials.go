package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	serviceAuth "github.com/cdma-ap/cmsnr-directory/internal/service/auth"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  "Hashes the argument, or the first line of stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := serviceAuth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin access token without a login",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if username == "" {
				username = cfg.Admin.Username
			}

			jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
			if !jwtService.Enabled() {
				return errors.New("JWT_SECRET_KEY is not set")
			}
			token, expiresAt, err := jwtService.GenerateAccessToken(username)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"access_token": token,
				"token_type":   "Bearer",
				"expires_at":   expiresAt,
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Subject of the token (default ADMIN_USERNAME)")
	return cmd
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				password = os.Getenv("RECIPECTL_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			if password == "" {
				return errors.New("password is required")
			}

			api, err := ctx.anonymousClient()
			if err != nil {
				return err
			}

			token, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			cfg.Token = token
			if op := ctx.operatorEmail(cfg); op == "" {
				cfg.OperatorEmail = email
			}
			if srv := ctx.serverURL(cfg); srv != "" {
				cfg.Server = srv
			}
			if err := ctx.saveConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (or RECIPECTL_PASSWORD)")
	return cmd
}

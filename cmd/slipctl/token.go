package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkazlauskas/bendrija-ingest/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a local JWT for calling the ingestion API",
	Long: `Signs a short-lived bearer token with the configured JWT_SECRET so an
operator can exercise the HTTP API from curl during development.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("user", "local", "Subject user id placed in the token")
	tokenCmd.Flags().String("role", "admin", "Role claim placed in the token")
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET env var is required")
	}
	user, _ := cmd.Flags().GetString("user")
	role, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := server.GenerateToken(user, role, secret, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

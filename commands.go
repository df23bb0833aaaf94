package main

import (
	"errors"
	"fmt"
	"time"

	"secondbrain/logger"
	"secondbrain/repository"
	"secondbrain/services"

	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, disconnect, err := connectDatabase(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer disconnect()

		return repository.SetupIndexes(ctx, db, cfg.Mongo.NotesCollection, cfg.Mongo.TasksCollection)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Mint an access token for local development",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWT.Expiration
		}

		token, err := services.GenerateAccessToken(cfg.JWT.SecretKey, cfg.JWT.Issuer, args[0], ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke [token]",
	Short: "Add an access token to the revocation list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.Redis.URL == "" {
			return errors.New("REDIS_URL is required to revoke tokens")
		}

		claims, err := services.ParseAccessToken(args[0], cfg.JWT.SecretKey, cfg.JWT.Issuer)
		if errors.Is(err, services.ErrTokenExpired) {
			fmt.Fprintln(cmd.OutOrStdout(), "token already expired")
			return nil
		}
		if err != nil {
			return err
		}

		blacklist, err := services.NewTokenBlacklist(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer blacklist.Close()

		if err := blacklist.Revoke(ctx, args[0], claims.ExpiresAt.Time); err != nil {
			return err
		}
		logger.Info(ctx, "token revoked", logger.UserID(claims.User()))
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION)")
	rootCmd.AddCommand(serveCmd, indexesCmd, tokenCmd, revokeCmd)
}

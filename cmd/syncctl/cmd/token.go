package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for POST /api/v1/sync",
	Long:  `Sign a trigger token with SYNC_TRIGGER_SECRET. Send it as "Authorization: Bearer <token>".`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "syncctl", "Subject recorded in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	if cfg.App.TriggerSecret == "" {
		return errors.New("SYNC_TRIGGER_SECRET is not set")
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.App.TriggerSecret).GenerateTriggerToken(tokenSubject, tokenTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	return nil
}

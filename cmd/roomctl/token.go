package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/room-occupancy/internal/config"
	"github.com/iliyamo/room-occupancy/internal/utils"
)

var (
	tokenSecret  string
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an OPERATOR token for POST /v1/refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := tokenSecret
		if secret == "" {
			secret = config.Load().JWTSecret
		}
		if secret == "" {
			return errors.New("no secret: pass --secret or set JWT_SECRET")
		}
		tok, err := utils.NewOperatorToken(secret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return json.NewEncoder(out).Encode(map[string]string{
				"token":      tok.Token,
				"expires_at": tok.Exp.Format(time.RFC3339),
			})
		}
		fmt.Fprintln(out, tok.Token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "roomctl", "sub claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagespeed-recorder/internal/config"
	"github.com/jonathan/pagespeed-recorder/internal/server"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the serve API",
	Long:  `Signs a token with JWT_SECRET for the given subject, e.g. the scheduler that triggers runs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return err
		}

		token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "scheduler", "Caller name stored in the token")
	rootCmd.AddCommand(tokenCmd)
}

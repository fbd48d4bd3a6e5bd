package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/routing"
	"github.com/noah-isme/appeal-routing-api/internal/service"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var (
		id     service.Identity
		role   string
		expiry time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Long:  "Signs an HS256 access token with the configured JWT secret. Roles: student, " + rolesList() + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if expiry <= 0 {
				expiry = cfg.JWT.Expiration
			}
			id.Role = models.Role(role)
			tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, Expiry: expiry})
			token, expiresAt, err := tokens.Issue(id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&id.UserID, "user", "", "User or student id (subject)")
	cmd.Flags().StringVar(&role, "role", "", "Role claim")
	cmd.Flags().StringVar(&id.FullName, "name", "", "Display name recorded on decisions")
	cmd.Flags().StringVar(&id.Email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&expiry, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func rolesList() string {
	out := ""
	for i, r := range routing.ApproverRoles() {
		if i > 0 {
			out += ", "
		}
		out += string(r)
	}
	return out
}

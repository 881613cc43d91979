package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/infrastructure/db/postgres"
	"github.com/portfolio/blog-admin/internal/pkg/config"
)

func newBootstrapAdminCmd() *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Grant a role to a user in the user_roles table",
		Long: `Create the user_roles table if needed and upsert the role for one user id.
Requires POSTGRES_URL.`,
		Example: `  blog-admin bootstrap-admin --user-id 3f6c... --role admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			r, err := domain.ParseRole(role)
			if err != nil {
				return fmt.Errorf("--role: %w", err)
			}

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("POSTGRES_URL is not set")
			}

			pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: 1})
			if err != nil {
				return err
			}
			defer pool.Close()

			mirror := postgres.NewRoleMirror(pool)
			if err := mirror.EnsureSchema(ctx); err != nil {
				return err
			}
			prev, err := mirror.Role(ctx, userID)
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				prev = "none"
			case err != nil:
				return err
			}
			if err := mirror.UpsertRole(ctx, userID, r); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %s: %s -> %s\n", userID, prev, r)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "User id to grant the role to")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role to grant")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog-admin",
		Short: "Admin panel backend for the portfolio blog",
		Long: `blog-admin serves the admin panel API of the portfolio blog: credential login
with a single two-hour session, role permissions, the admin user registry and
traffic analytics with a synthesized fallback.

All settings are read from environment variables; see "serve --help".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd(version))
	cmd.AddCommand(newBootstrapAdminCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// RootCommand assembles the santactl command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "santactl",
		Short:         "Administer a secret santa exchange",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.config.ServerEndpointAddr, "server", "a", a.config.ServerEndpointAddr, "address and port of the admin gRPC endpoint")
	pf.StringVar(&a.config.AdminToken, "admin-token", a.config.AdminToken, "admin token (defaults to $ADMIN_TOKEN)")
	pf.DurationVar(&a.config.RequestTimeout, "timeout", a.config.RequestTimeout, "timeout for a single request")
	// Read by config.Load before cobra runs; declared so it is accepted here.
	pf.StringP("config", "c", "", "path to a JSON config file")

	root.AddCommand(
		a.pingCommand(),
		a.initUsersCommand(),
		a.shuffleCommand(),
		a.usersCommand(),
		a.clearAssignmentsCommand(),
		a.clearMessagesCommand(),
		a.archivesCommand(),
	)
	return root
}

// Execute runs the command tree with args and releases the connection even
// when a command fails.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

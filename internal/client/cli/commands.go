package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"github.com/spf13/cobra"
)

var errNoUsers = errors.New("no users given: pass names, --file or --prompt")

func (a *App) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := c.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Server at %s is up\n", a.config.ServerEndpointAddr)
			return nil
		},
	}
}

func (a *App) initUsersCommand() *cobra.Command {
	var (
		file         string
		prompt       bool
		generateKeys bool
	)

	cmd := &cobra.Command{
		Use:   "init-users [names...]",
		Short: "Create participants",
		Long: "Create participants from the given names and/or a file.\n" +
			"File lines are \"name\" or \"name:secretKey\"; a .json file holds [{\"name\", \"secretKey\"}].",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []pb.NewUser
			if file != "" {
				fromFile, err := ReadUsersFile(file)
				if err != nil {
					return err
				}
				users = append(users, fromFile...)
			}
			for _, name := range args {
				users = append(users, pb.NewUser{Name: strings.TrimSpace(name)})
			}

			if prompt && len(users) == 0 {
				names, err := GetLines(a.reader, "Enter participant names, one per line", a.out)
				if err != nil {
					return err
				}
				for _, n := range names {
					users = append(users, pb.NewUser{Name: n})
				}
			}
			if len(users) == 0 {
				return errNoUsers
			}

			for i := range users {
				if users[i].SecretKey != "" {
					continue
				}
				switch {
				case prompt:
					key, err := GetSecret(a.out, fmt.Sprintf("Secret key for %s (empty to skip): ", users[i].Name))
					if err != nil {
						return err
					}
					users[i].SecretKey = key
				case generateKeys:
					key, err := generateKey()
					if err != nil {
						return err
					}
					users[i].SecretKey = key
				}
			}

			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			res, err := c.InitUsers(ctx, users)
			if err != nil {
				return err
			}
			a.printInitSummary(users, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read participants from a file")
	cmd.Flags().BoolVarP(&prompt, "prompt", "p", false, "ask for names and secret keys interactively")
	cmd.Flags().BoolVarP(&generateKeys, "generate-keys", "g", false, "generate a secret key for participants without one")
	return cmd
}

func (a *App) printInitSummary(sent []pb.NewUser, res *pb.InitUsersResponse) {
	fmt.Fprintf(a.out, "Created: %d users\n", len(res.Created))
	for _, u := range res.Created {
		fmt.Fprintf(a.out, "  + %s (%s)\n", u.Name, u.ID)
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(a.out, "Errors: %d\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(a.out, "  - %s: %s\n", e.Name, e.Error)
		}
	}

	created := make(map[string]bool, len(res.Created))
	for _, u := range res.Created {
		created[u.Name] = true
	}

	header := false
	for _, u := range sent {
		if u.SecretKey == "" || !created[u.Name] {
			continue
		}
		if !header {
			fmt.Fprintln(a.out, "Secret keys (share these with each participant):")
			header = true
		}
		fmt.Fprintf(a.out, "  %s: %s\n", u.Name, u.SecretKey)
	}
}

// generateKey returns 12 random hex characters.
func generateKey() (string, error) {
	key, err := common.MakeRandHexString(6)
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

func (a *App) shuffleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Draw new gift assignments for everyone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			res, err := c.Shuffle(ctx)
			if err != nil {
				return err
			}

			if res.Fallback {
				fmt.Fprintln(a.out, "Assignments shuffled successfully (with fallback fix)")
			} else {
				fmt.Fprintln(a.out, "Assignments shuffled successfully")
			}
			for _, p := range res.Assignments {
				fmt.Fprintf(a.out, "  %s -> %s\n", p.Name, p.AssignedTo)
			}
			if res.ArchiveKey != "" {
				fmt.Fprintf(a.out, "Archived as %s\n", res.ArchiveKey)
			}
			return nil
		},
	}
}

func (a *App) usersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			users, err := c.ListUsers(ctx)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(a.out, "No users")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKEY\tGIVES TO")
			for _, u := range users {
				key := "no"
				if u.HasKey {
					key = "yes"
				}
				to := u.AssignedTo
				if to == "" {
					to = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Name, key, to)
			}
			return tw.Flush()
		},
	}
}

func (a *App) clearAssignmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-assignments",
		Short: "Remove every gift assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := c.ClearAssignments(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "All assignments cleared")
			return nil
		},
	}
}

func (a *App) clearMessagesCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-messages",
		Short: "Delete every message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := GetSimpleText(a.reader, "This deletes every message. Type 'yes' to continue", a.out)
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(a.out, "Aborted")
					return nil
				}
			}

			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			n, err := c.ClearMessages(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %d messages\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

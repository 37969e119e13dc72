package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/filex"
	"github.com/dmitrijs2005/secretsanta/internal/netx"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"github.com/spf13/cobra"
)

// download is a test seam for netx.DownloadFromPresignedURL.
var download = netx.DownloadFromPresignedURL

func (a *App) archivesCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "archives",
		Short: "List archived shuffles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			archives, err := c.ListArchives(ctx)
			if err != nil {
				return err
			}
			if len(archives) == 0 {
				fmt.Fprintln(a.out, "No archived shuffles")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
			for _, ar := range archives {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", ar.Key, ar.Size, ar.LastModified.Format(time.RFC3339))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if dir == "" {
				return nil
			}
			return a.downloadArchives(cmd.Context(), dir, archives)
		},
	}

	cmd.Flags().StringVarP(&dir, "download", "d", "", "download every archive into this directory")
	return cmd
}

func (a *App) downloadArchives(ctx context.Context, dir string, archives []pb.Archive) error {
	target, err := filex.EnsureDir(dir)
	if err != nil {
		return err
	}

	for _, ar := range archives {
		if err := a.downloadOne(ctx, target, ar); err != nil {
			return fmt.Errorf("%s: %w", ar.Key, err)
		}
	}
	return nil
}

func (a *App) downloadOne(ctx context.Context, dir string, ar pb.Archive) error {
	f, err := filex.CreateIn(dir, ar.Key)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := download(ctx, ar.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Downloaded %s (%d bytes) to %s\n", ar.Key, n, f.Name())
	return nil
}

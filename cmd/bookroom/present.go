package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leterax/bookroom/internal/logging"
	"github.com/leterax/bookroom/pkg/remote"
)

var errQuit = errors.New("quit")

// presenter is the part of remote.Server the command loop drives.
type presenter interface {
	PageLeft() error
	PageRight() error
	SetPage(n int) error
	SetProfile(name string) error
	Viewers() []remote.Viewer
}

func newPresentCommand(flags *rootFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "present",
		Short: "Turn the pages of every connected viewer from stdin",
		Long: `Listen for viewers and read commands from stdin:

  left | right     turn one page
  page N           open page N
  profile NAME     switch the turn profile
  list             show connected viewers
  quit             stop presenting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := flags.load(); err != nil {
				return err
			}
			srv, err := remote.Listen(listen)
			if err != nil {
				return err
			}

			srv.OnViewerState = func(v remote.Viewer) {
				logging.Logger().Info("viewer state", "viewer", v.ID, "name", v.Name,
					"target", v.State.Target, "cursor", v.State.Cursor)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "presenting on %s\n", srv.Addr())

			var g errgroup.Group
			g.Go(srv.Serve)
			g.Go(func() error {
				defer srv.Close()
				return presentLoop(cmd.InOrStdin(), cmd.OutOrStdout(), srv)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&listen, "listen", fmt.Sprintf(":%d", remote.DefaultPort), "address to accept viewers on")
	return cmd
}

// presentLoop executes stdin commands until quit or end of input.
func presentLoop(in io.Reader, out io.Writer, p presenter) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		err := execute(sc.Text(), out, p)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
	return sc.Err()
}

func execute(line string, out io.Writer, p presenter) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "left", "l":
		return p.PageLeft()
	case "right", "r":
		return p.PageRight()
	case "page", "p":
		if len(args) != 1 {
			return fmt.Errorf("usage: page N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("page %q: %w", args[0], err)
		}
		return p.SetPage(n)
	case "profile":
		if len(args) != 1 {
			return fmt.Errorf("usage: profile NAME")
		}
		return p.SetProfile(args[0])
	case "list", "ls":
		printViewers(out, p.Viewers())
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printViewers(out io.Writer, viewers []remote.Viewer) {
	if len(viewers) == 0 {
		fmt.Fprintln(out, "no viewers")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPAGE\tCURSOR")
	for _, v := range viewers {
		fmt.Fprintf(tw, "%d\t%s\t%d/%d\t%.2f\n", v.ID, v.Name, v.State.Target, v.State.PageCount, v.State.Cursor)
	}
	tw.Flush()
}

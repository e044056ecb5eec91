package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmllt/talentboard/internal/board"
	"github.com/gmllt/talentboard/internal/client"
	"github.com/gmllt/talentboard/internal/tui"
	"github.com/gmllt/talentboard/internal/view"
)

var (
	serverURL  string
	username   string
	password   string
	jsonOutput bool
)

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func init() {
	for _, cmd := range []*cobra.Command{boardCmd, tuiCmd} {
		cmd.Flags().StringVar(&serverURL, "server", envOr("TALENTBOARD_SERVER", "http://localhost:8080"), "talentboard server URL")
		cmd.Flags().StringVarP(&username, "user", "u", os.Getenv("TALENTBOARD_USER"), "username")
		cmd.Flags().StringVarP(&password, "password", "p", "", "password (default $TALENTBOARD_PASSWORD)")
	}
	boardCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the grouped board as JSON, in the API's shape")
}

func login(ctx context.Context) (*client.Client, error) {
	if username == "" {
		return nil, errors.New("--user is required")
	}
	pw := password
	if pw == "" {
		pw = os.Getenv("TALENTBOARD_PASSWORD")
	}
	c := client.New(serverURL, nil)
	if err := c.Login(ctx, username, pw); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

// source picks the processes board, or the applications board of the process
// named by args[0].
func source(ctx context.Context, c *client.Client, args []string) (tui.Source, error) {
	if len(args) == 0 {
		return tui.ProcessSource(c), nil
	}
	p, err := c.GetProcess(ctx, args[0])
	if err != nil {
		return tui.Source{}, err
	}
	return tui.ApplicationSource(c, p.ID, p.Description), nil
}

var boardCmd = &cobra.Command{
	Use:   "board [process-id]",
	Short: "Print the processes board, or the applications board of a process",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := login(ctx)
		if err != nil {
			return err
		}
		src, err := source(ctx, c, args)
		if err != nil {
			return err
		}
		cards, err := src.Load(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			r, err := board.New[string](src.Columns, board.Plain{}, nil)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(board.Snapshot{Lanes: r.Group(cards)})
		}

		r, err := board.New[string](src.Columns, view.Terminal{}, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), src.Title)
		fmt.Fprintln(cmd.OutOrStdout(), view.Join(r.Render(cards), ""))
		if hidden := r.Unplaced(cards); len(hidden) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d card(s) hidden: unknown column\n", len(hidden))
		}
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [process-id]",
	Short: "Drag cards between columns from the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := login(ctx)
		if err != nil {
			return err
		}
		src, err := source(ctx, c, args)
		if err != nil {
			return err
		}
		return tui.Run(ctx, src)
	},
}

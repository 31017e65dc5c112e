package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"workspace-be/internal/client"
	"workspace-be/pkg/events"
	pktNats "workspace-be/pkg/nats"
	"workspace-be/pkg/notesync"
	"workspace-be/pkg/workspace"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewTreeCommand prints a workspace snapshot file.
func NewTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the workspace tree with container categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("snapshot")
			forest, err := workspace.LoadSnapshot(path)
			if err != nil {
				return err
			}
			renderTree(cmd.OutOrStdout(), forest)
			return nil
		},
	}
	cmd.Flags().String("snapshot", envOr("WORKSPACE_SNAPSHOT_PATH", "data/workspace.json"), "Snapshot file (.json or .yaml)")
	return cmd
}

// NewNotesCommand groups the note subcommands. Mutations go through the
// optimistic syncer so the output reflects what a UI would show.
func NewNotesCommand() *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "List, create and delete notes",
	}

	notesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSyncer(cmd)
			if err := s.Refresh(cmd.Context()); err != nil {
				return err
			}
			renderNotes(cmd.OutOrStdout(), s.Cache().Notes())
			return nil
		},
	})

	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetStringSlice("tag")
			folder, _ := cmd.Flags().GetString("folder")

			draft := notesync.Draft{Title: strings.Join(args, " "), Tags: tags}
			if folder != "" {
				draft.FolderId = &folder
			}

			res := newSyncer(cmd).CreateNoteOptimistic(cmd.Context(), draft)
			if res.Failed() {
				color.Red("Failed: %s", res.Message())
				return res.Err
			}
			color.Green("Created note %s", res.Note.Id)
			return nil
		},
	}
	createCmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")
	createCmd.Flags().String("folder", "", "Folder id the note belongs to")
	notesCmd.AddCommand(createCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				color.Yellow("Deleting %s cannot be undone; re-run with --yes to confirm", args[0])
				return errors.New("deletion not confirmed")
			}

			s := newSyncer(cmd)
			if err := s.Refresh(cmd.Context()); err != nil {
				return err
			}
			res := s.DeleteNoteOptimistic(cmd.Context(), args[0])
			if res.Failed() {
				color.Red("Failed: %s", res.Message())
				return res.Err
			}
			if res.RefreshErr != nil {
				color.Yellow("Deleted, but the list could not be refreshed: %v", res.RefreshErr)
			}
			color.Green("Deleted note %s (%d remaining)", args[0], s.Cache().Len())
			return nil
		},
	}
	deleteCmd.Flags().Bool("yes", false, "Confirm the deletion")
	notesCmd.AddCommand(deleteCmd)

	return notesCmd
}

// NewEventsCommand tails the durable event stream.
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow workspace and note events from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("nats")
			durable, _ := cmd.Flags().GetString("durable")

			sub, err := pktNats.NewSubscriber(url)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			color.Cyan("Following %s* (ctrl-c to stop)", pktNats.SubjectPrefix)
			return sub.Consume(ctx, pktNats.SubjectPrefix+">", durable, func(_ context.Context, event events.Event) error {
				fmt.Fprintln(cmd.OutOrStdout(), formatEvent(event))
				return nil
			})
		},
	}
	cmd.Flags().String("nats", envOr("NATS_URL", "nats://localhost:4222"), "NATS server URL")
	cmd.Flags().String("durable", "", "Durable consumer name; empty for an ephemeral consumer")
	return cmd
}

func newSyncer(cmd *cobra.Command) *notesync.Syncer {
	api, _ := cmd.Flags().GetString("api")
	token, _ := cmd.Flags().GetString("token")
	return notesync.NewSyncer(notesync.NewCache(nil), client.NewNoteClient(api, token))
}

func formatEvent(event events.Event) string {
	return fmt.Sprintf("%s %s %v",
		color.New(color.Faint).Sprint(event.Timestamp().Format(time.RFC3339)),
		color.New(color.FgCyan, color.Bold).Sprint(event.EventType()),
		event.Payload(),
	)
}

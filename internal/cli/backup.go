package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/pkg/backup"
)

// backupCommand creates the backup command and its subcommands.
func (c *CLI) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Store and restore snapshot versions",
	}

	cmd.AddCommand(c.backupSaveCommand())
	cmd.AddCommand(c.backupListCommand())
	cmd.AddCommand(c.backupRestoreCommand())
	cmd.AddCommand(c.backupDeleteCommand())

	return cmd
}

// openBackupStore opens the configured backup store.
func (c *CLI) openBackupStore() (*backup.Store, error) {
	dir, err := c.backupDir()
	if err != nil {
		return nil, fmt.Errorf("resolve backup dir: %w", err)
	}
	return backup.Open(dir)
}

func (c *CLI) backupSaveCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "save [snapshot.json]",
		Short: "Store a snapshot version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := inputArg(args)
			snap, err := readSnapshotArg(input)
			if err != nil {
				return err
			}
			if label == "" && input != "-" {
				label = input
			}

			store, err := c.openBackupStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.Save(cmd.Context(), label, snap)
			if err != nil {
				return err
			}
			printSuccess("Saved backup %s", entry.ID[:8])
			printCounts(snap.Count(), false)
			printNextStep("Restore with", "railsmith backup restore "+entry.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "label shown in listings (default: input file name)")

	return cmd
}

func (c *CLI) backupListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshot versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openBackupStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No backups stored")
				return nil
			}
			for _, e := range entries {
				label := e.Label
				if label == "" {
					label = "(unlabeled)"
				}
				fmt.Println(StyleHighlight.Render(e.ID[:8]) + " " + StyleValue.Render(label))
				printDetail("%s · bpm %g · %d notes · %d rails · %d walls",
					e.CreatedAt.Format("2006-01-02 15:04"), e.BPM, e.Notes, e.Rails, e.Walls)
			}
			return nil
		},
	}
}

func (c *CLI) backupRestoreCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "restore [id]",
		Short: "Write a stored snapshot back out",
		Long: `Write a stored snapshot back out.

With no id, an interactive picker lists the stored versions. Ids may be
abbreviated to any unique prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openBackupStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var id string
			if len(args) == 1 {
				if id, err = c.resolveBackupID(cmd, store, args[0]); err != nil {
					return err
				}
			} else {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("No backups stored")
					return nil
				}
				picked, err := pickBackup(entries)
				if err != nil {
					return err
				}
				if picked == nil {
					return nil
				}
				id = picked.ID
			}

			snap, err := store.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeSnapshotArg(snap, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) backupDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snapshot version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openBackupStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := c.resolveBackupID(cmd, store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted backup %s", id[:8])
			return nil
		},
	}
}

// resolveBackupID expands an abbreviated id prefix to the full id,
// requiring the prefix to be unique.
func (c *CLI) resolveBackupID(cmd *cobra.Command, store *backup.Store, prefix string) (string, error) {
	entries, err := store.List(cmd.Context())
	if err != nil {
		return "", err
	}
	var match string
	for _, e := range entries {
		if e.ID == prefix {
			return e.ID, nil
		}
		if len(prefix) >= 4 && len(e.ID) > len(prefix) && e.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("backup id prefix %q is ambiguous", prefix)
			}
			match = e.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no backup matches %q", prefix)
	}
	return match, nil
}

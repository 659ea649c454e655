// ABOUTME: Backup export and import subcommands
// ABOUTME: Import replaces each collection present in the file and leaves the rest alone
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
)

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a JSON backup",
	}
	cmd.AddCommand(a.backupExportCmd())
	cmd.AddCommand(a.backupImportCmd())
	return cmd
}

func (a *app) backupExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to a backup file",
		Long: `Write customers, interactions, deals, tasks, settings and rejection reasons
to a JSON file. The default name is crm-backup-YYYY-MM-DD.json in the current
directory; use -o - for stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			b := svc.Export()

			if output == "-" {
				return crm.WriteBackup(cmd.OutOrStdout(), b)
			}
			if output == "" {
				output = crm.BackupFileName(svc.Now())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			if err := crm.WriteBackup(f, b); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write backup: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Backup written to %s\n", output)
			fmt.Fprintf(cmd.OutOrStdout(), "  %d customers, %d interactions, %d deals, %d tasks\n",
				len(b.Customers), len(b.Interactions), len(b.Deals), len(b.Tasks))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file (- for stdout)")
	return cmd
}

func (a *app) backupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore collections from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open backup: %w", err)
				}
				defer func() { _ = f.Close() }()
				r = f

				ok, err := a.confirm(cmd, "Replace current data with "+args[0]+"?")
				if err != nil || !ok {
					return err
				}
			}

			keys, err := svc.Import(r)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported: %s\n", strings.Join(keys, ", "))
			return nil
		},
	}
}

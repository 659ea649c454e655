// ABOUTME: Migration between storage backends
// ABOUTME: Copies the six CRM documents byte for byte, backing up the destination first
package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/store"
)

func (a *app) migrateCmd() *cobra.Command {
	var to, toPath string
	var dryRun, backup, force bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the CRM from the configured backend to another one",
		Long: `Copy every CRM document from the configured backend (--backend, --data-dir)
to the backend named by --to. Documents the destination already holds are only
overwritten with --force, and are exported to a backup file first unless
--backup=false. The destination ends up holding exactly the source's documents:
any it has that the source lacks are deleted.`,
		Example: `  amil migrate --to sqlite
  amil --backend sqlite migrate --to charm --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			from := strings.ToLower(a.v.GetString("storage.backend"))
			fromPath := a.v.GetString("storage.path")
			if toPath == "" {
				toPath = fromPath
			}
			to = strings.ToLower(to)
			if to == from && expandPath(toPath) == expandPath(fromPath) {
				return fmt.Errorf("source and destination are both %s at %s", from, fromPath)
			}

			src, err := a.openBackend(ctx, from, fromPath)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()

			docs, err := store.Present(src)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return fmt.Errorf("nothing to migrate: the %s store is empty", from)
			}

			dst, err := a.openBackend(ctx, to, toPath)
			if err != nil {
				return err
			}
			defer func() { _ = dst.Close() }()

			existing, err := store.Present(dst)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(out, "[dry run] would copy from %s to %s: %s\n", from, to, strings.Join(docs, ", "))
				if len(existing) > 0 {
					fmt.Fprintf(out, "[dry run] destination already holds: %s\n", strings.Join(existing, ", "))
				}
				if stale := missingFrom(existing, docs); len(stale) > 0 {
					fmt.Fprintf(out, "[dry run] would remove from %s: %s\n", to, strings.Join(stale, ", "))
				}
				return nil
			}

			if len(existing) > 0 {
				if !force {
					return fmt.Errorf("the %s store already holds %s; pass --force to overwrite", to, strings.Join(existing, ", "))
				}
				if backup {
					file, err := backupStore(dst)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "✓ Backup of the %s store written to %s\n", to, file)
				}
			}

			copied, removed, err := store.Mirror(src, dst)
			if err != nil {
				return fmt.Errorf("migration stopped after %d documents: %w", len(copied), err)
			}
			a.logger.Info("migrated store", "from", from, "to", to, "documents", len(copied), "removed", len(removed))
			fmt.Fprintf(out, "✓ Migrated %d documents from %s to %s: %s\n", len(copied), from, to, strings.Join(copied, ", "))
			if len(removed) > 0 {
				fmt.Fprintf(out, "  removed from %s: %s\n", to, strings.Join(removed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination backend (badger, sqlite, redis, charm)")
	cmd.Flags().StringVar(&toPath, "to-path", "", "data directory for the destination (default: --data-dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would happen without writing")
	cmd.Flags().BoolVar(&backup, "backup", true, "export the destination's documents before overwriting them")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite documents the destination already holds")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// backupStore exports kv's documents to a timestamped file in the current
// directory and returns its name.
func backupStore(kv store.KV) (string, error) {
	svc, err := crm.Open(kv)
	if err != nil {
		return "", fmt.Errorf("failed to read destination for backup: %w", err)
	}
	name := fmt.Sprintf("crm-backup-%s-pre-migrate.json", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if err := crm.WriteBackup(f, svc.Export()); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return name, nil
}

// missingFrom lists the keys of have that want lacks.
func missingFrom(have, want []string) []string {
	var out []string
	for _, k := range have {
		if !slices.Contains(want, k) {
			out = append(out, k)
		}
	}
	return out
}

// ABOUTME: Root cobra command, configuration loading and shared command state
// ABOUTME: Opens the configured store lazily so commands that need no data stay cheap
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/harperreed/amil/charm"
	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/db"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/store"
)

// Storage backends selectable with --backend or storage.backend.
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendCharm  = "charm"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	yes     bool
	version string

	logger *log.Logger
	svc    *crm.Service
	charm  *charm.Client
}

// Execute runs the command line with args and returns the first error.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	a := &app{v: viper.New(), version: version}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.close()
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "amil",
		Short: "Bilingual customer relationship manager",
		Long: `amil keeps customers, interactions, deals and tasks for a small business.

Labels, currency and dates follow the language chosen in settings (Arabic or
English). Data lives in a local store by default and can sync through charm.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/amil/config.yaml)")
	flags.String("data-dir", "", "data directory (default: $XDG_DATA_HOME/amil)")
	flags.String("backend", BackendBadger, "storage backend (badger, memory, sqlite, redis, charm)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.BoolVarP(&a.yes, "yes", "y", false, "answer yes to confirmation prompts")

	_ = a.v.BindPFlag("storage.path", flags.Lookup("data-dir"))
	_ = a.v.BindPFlag("storage.backend", flags.Lookup("backend"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(a.customersCmd())
	root.AddCommand(a.interactionsCmd())
	root.AddCommand(a.dealsCmd())
	root.AddCommand(a.tasksCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.settingsCmd())
	root.AddCommand(a.backupCmd())
	root.AddCommand(a.graphCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.syncCmd())
	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.tuiCmd())
	root.AddCommand(a.mcpCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.versionCmd())

	return root
}

func (a *app) setDefaults() {
	a.v.SetDefault("storage.backend", BackendBadger)
	a.v.SetDefault("storage.path", filepath.Join(xdg.DataHome, charm.AppName))
	a.v.SetDefault("storage.redis_url", "redis://localhost:6379/0")
	a.v.SetDefault("storage.redis_prefix", store.DefaultRedisPrefix)
	a.v.SetDefault("notify.interval", crm.DefaultNotifyInterval)
	a.v.SetDefault("notify.window", crm.DefaultNotifyWindow)
	a.v.SetDefault("logging.level", "info")
	a.v.SetDefault("logging.format", "text")
	a.v.SetDefault("server.addr", ":8080")
	a.v.SetDefault("google.client_id", "")
	a.v.SetDefault("google.client_secret", "")
	a.v.SetDefault("google.calendar_days", 30)
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	a.setDefaults()
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(filepath.Join(xdg.ConfigHome, charm.AppName))
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("AMIL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("logging.level"), a.v.GetString("logging.format"))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger
	return nil
}

func newLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := log.Options{Level: lvl, ReportTimestamp: true}
	switch format {
	case "text", "console":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return log.NewWithOptions(w, opts), nil
}

// service opens the configured store and loads the CRM on first use.
func (a *app) service(ctx context.Context) (*crm.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	kv, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := crm.Open(kv, crm.WithLogger(a.logger))
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	a.svc = svc
	return svc, nil
}

func (a *app) openStore(ctx context.Context) (store.KV, error) {
	return a.openBackend(ctx, a.v.GetString("storage.backend"), a.v.GetString("storage.path"))
}

// openBackend opens the named backend. Badger and sqlite keep their files
// under dir; redis and charm take their settings from the config.
func (a *app) openBackend(ctx context.Context, backend, dir string) (store.KV, error) {
	backend = strings.ToLower(backend)
	dir = expandPath(dir)
	a.logger.Debug("opening store", "backend", backend, "path", dir)

	switch backend {
	case BackendBadger:
		kv, err := store.OpenBadger(filepath.Join(dir, "badger"))
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return kv, nil
	case BackendMemory:
		return store.OpenMemory()
	case BackendSQLite:
		return db.OpenKV(filepath.Join(dir, "amil.db"))
	case BackendRedis:
		return store.OpenRedis(ctx, a.v.GetString("storage.redis_url"), a.v.GetString("storage.redis_prefix"))
	case BackendCharm:
		c, err := a.charmClient()
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func (a *app) charmClient() (*charm.Client, error) {
	if a.charm != nil {
		return a.charm, nil
	}
	cfg, err := charm.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load charm config: %w", err)
	}
	c, err := charm.Open(cfg)
	if err != nil {
		return nil, err
	}
	a.charm = c
	return c, nil
}

func (a *app) close() {
	if a.svc != nil {
		if err := a.svc.Close(); err != nil && a.logger != nil {
			a.logger.Error("failed to close store", "err", err)
		}
	}
}

func (a *app) locale() i18n.Locale {
	return i18n.LocaleFor(a.svc.Settings())
}

// settle downgrades a persistence warning to a log line. The change is kept
// for the rest of this process.
func (a *app) settle(err error) error {
	if crm.IsWarning(err) {
		a.logger.Warn("change was not saved to the store", "err", err)
		return nil
	}
	return err
}

// confirm asks a yes/no question on an interactive terminal. Without a
// terminal only --yes can approve.
func (a *app) confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if a.yes {
		return true, nil
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return false, errors.New("not a terminal; pass --yes to confirm")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// expandPath resolves a leading ~ and environment variables.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "amil %s\n", a.version)
		},
	}
}

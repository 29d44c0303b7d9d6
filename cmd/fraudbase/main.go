// Command fraudbase is the terminal client of the FraudBase API: person
// search, record detail, recidivism ranking and reports, spreadsheet
// upload and account administration.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DukeRupert/fraudbase/internal"
	"github.com/DukeRupert/fraudbase/internal/client/api"
	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/client/session"
	"github.com/DukeRupert/fraudbase/internal/client/view"
)

const defaultServer = "http://localhost:8080"

// annotationPublic marks commands that run without a stored session.
const annotationPublic = "public"

// errReported signals a failure that was already printed as a notification.
var errReported = errors.New("reported")

var (
	// Global flags
	serverURL   string
	sessionPath string
	verbose     bool

	logger *slog.Logger
	store  *session.BoltStore
	sess   *session.Session
	client *api.Client
	styles = view.DefaultStyles()
)

var rootCmd = &cobra.Command{
	Use:   "fraudbase",
	Short: "FraudBase - consulta de envolvidos e reincidência",
	Long: `fraudbase is the command-line client of the FraudBase API.

Log in once with 'fraudbase login'; the token is kept in a local session
file and sent with every request until 'fraudbase logout'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger = internal.NewLogger(os.Stderr, "development", level)

		if !needsSession(cmd) && cmd.Name() != "login" && cmd.Name() != "logout" {
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(sessionPath), 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
		var err error
		store, err = session.OpenBoltStore(sessionPath)
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		sess, err = session.New(store)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		client = api.NewClient(serverURL, sess)

		if needsSession(cmd) {
			return sess.Require()
		}
		return nil
	},
}

// closeSession releases the session file after a command ran.
func closeSession() {
	if store != nil {
		_ = store.Close()
		store = nil
	}
}

// needsSession reports whether cmd is guarded. Commands annotated public,
// and cobra's own help and completion commands, are not.
func needsSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationPublic] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", "__complete":
			return false
		}
	}
	return cmd.HasParent()
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "fraudbase", "session.db")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("FRAUDBASE_SERVER", defaultServer), "API base URL (env FRAUDBASE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", envOr("FRAUDBASE_SESSION", defaultSessionPath()), "session file (env FRAUDBASE_SESSION)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(searchCmd, detailCmd, registerCmd)
	rootCmd.AddCommand(recidivismCmd)
	rootCmd.AddCommand(uploadCmd, dashboardCmd, refreshViewsCmd, usersCmd, lookupCmd, cleanDuplicatesCmd, boStatsCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printNotice writes n to the command's output. Error and warning
// notifications make the command fail with errReported.
func printNotice(cmd *cobra.Command, n notify.Notification) error {
	if n.IsZero() {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.Notification(n))
	switch n.Level {
	case notify.LevelError, notify.LevelWarning:
		return errReported
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeSession()
	if err != nil {
		if !errors.Is(err, errReported) {
			if api.IsUnauthorized(err) {
				err = fmt.Errorf("sessão expirada ou inválida: execute 'fraudbase login' novamente")
			}
			fmt.Fprintln(os.Stderr, "Erro:", err)
		}
		os.Exit(1)
	}
}

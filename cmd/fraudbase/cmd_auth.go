package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DukeRupert/fraudbase/internal/client/session"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:         "login <usuario>",
	Short:       "Authenticate and store the session token",
	Long:        `Logs in with a username and password. Without --password the password is prompted for without echo, or read from the first line of stdin when it is not a terminal.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationPublic: "true"},
	RunE:        runLogin,
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Remove the stored session",
	Annotations: map[string]string{annotationPublic: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sess.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := sess.Current()
		role := "operador"
		if d.IsAdmin {
			role = "administrador"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, id %d, %s)\n", d.Nome, d.Username, d.UserID, role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (read from stdin when empty)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
		var err error
		password, err = readPassword(cmd.InOrStdin())
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	result, err := client.Login(cmd.Context(), args[0], password)
	if err != nil {
		logger.Debug("login failed", "error", err)
		return fmt.Errorf("login falhou: %w", err)
	}

	if err := sess.Save(session.Data{
		Token:    result.Token,
		UserID:   result.UserID,
		Username: result.Username,
		Nome:     result.Nome,
		IsAdmin:  result.IsAdmin,
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Bem-vindo, %s.\n", result.Nome)
	return nil
}

// readPassword reads without echo from a terminal, or the first line of any
// other reader.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

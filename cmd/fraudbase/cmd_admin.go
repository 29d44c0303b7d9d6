package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DukeRupert/fraudbase/internal/client/view"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

var (
	lookupUF string

	userParams   domain.UserParams
	passwdUserID int64
	passwdAtual  string
	passwdNova   string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <arquivo.xlsx>",
	Short: "Import a B.O. search result spreadsheet",
	Long: `Uploads a workbook exported from the B.O. search system. The file name
must contain "resultado_da_pesquisa_bo_" and the file must not exceed 10MB.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show victim, offender and report totals",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var refreshViewsCmd = &cobra.Command{
	Use:   "refresh-views",
	Short: "Recompute the dashboard views (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := client.RefreshViews(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Atualização agendada (job %s).\n", jobID)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:       "lookup <municipios|ufs|paises|delegacias|bancos>",
	Short:     "Print an auxiliary list as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"municipios", "ufs", "paises", "delegacias", "bancos"},
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := client.Lookup(cmd.Context(), args[0], strings.ToUpper(lookupUF))
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		return nil
	},
}

var cleanDuplicatesCmd = &cobra.Command{
	Use:   "clean-duplicates",
	Short: "Remove duplicate person rows (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.CleanDuplicates(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d registro(s) removido(s). Antes: %d, depois: %d.\n",
			res.RowsRemoved, res.TotalAntes, res.TotalDepois)
		return nil
	},
}

var boStatsCmd = &cobra.Command{
	Use:   "bo-stats",
	Short: "Show the newest and oldest B.O. numbers on file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := client.BOStatistics(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.Header.Render("B.O.s mais recentes"))
		for _, bo := range stats.RecentBOs {
			fmt.Fprintln(out, "  "+bo)
		}
		fmt.Fprintln(out, styles.Label.Render("B.O. mais antigo")+stats.OldestBO)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := client.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		t := view.Table{Headers: []string{"ID", "Login", "Nome", "Matrícula", "Unidade", "Admin"}}
		for _, u := range users {
			admin := ""
			if u.IsAdmin {
				admin = "sim"
			}
			t.AddRow(strconv.FormatInt(u.ID, 10), u.Login, u.Nome, u.Matricula, u.UnidadePolicial, admin)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Render(styles))
		return nil
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		u, err := client.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, kv := range [][2]string{
			{"Login", u.Login},
			{"Nome", u.Nome},
			{"CPF", field.FormatCPF(u.CPF)},
			{"Matrícula", u.Matricula},
			{"Telefone", field.FormatPhone(u.Telefone)},
			{"Cidade", u.Cidade},
			{"Estado", u.Estado},
			{"Unidade policial", u.UnidadePolicial},
			{"E-mail", u.Email},
		} {
			fmt.Fprintln(out, styles.Label.Render(kv[0])+kv[1])
		}
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := client.CreateUser(cmd.Context(), userParams)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Usuário %s criado com id %d.\n", u.Login, u.ID)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an account (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		userParams.ID = id
		u, err := client.UpdateUser(cmd.Context(), userParams)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Usuário %s atualizado.\n", u.Login)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := client.DeleteUser(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Usuário removido.")
		return nil
	},
}

var usersPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change a password (your own unless --user is given by an admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := domain.PasswordChangeParams{
			UserID:     passwdUserID,
			SenhaAtual: passwdAtual,
			NovaSenha:  passwdNova,
		}
		if params.UserID == 0 {
			params.UserID = sess.Current().UserID
		}
		if err := client.ChangePassword(cmd.Context(), params); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Senha atualizada com sucesso.")
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupUF, "uf", "", "state filter for municipios")

	for _, c := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		f := c.Flags()
		f.StringVar(&userParams.Login, "login", "", "login")
		f.StringVar(&userParams.Nome, "nome", "", "full name")
		f.StringVar(&userParams.CPF, "cpf", "", "CPF")
		f.StringVar(&userParams.Matricula, "matricula", "", "registration number")
		f.StringVar(&userParams.Telefone, "telefone", "", "phone")
		f.StringVar(&userParams.Cidade, "cidade", "", "city")
		f.StringVar(&userParams.Estado, "estado", "", "state")
		f.StringVar(&userParams.UnidadePolicial, "unidade", "", "police unit")
		f.StringVar(&userParams.Email, "email", "", "e-mail")
		f.StringVar(&userParams.Senha, "senha", "", "password")
		f.BoolVar(&userParams.IsAdmin, "admin", false, "grant administrator access")
	}
	_ = usersCreateCmd.MarkFlagRequired("login")
	_ = usersCreateCmd.MarkFlagRequired("senha")

	usersPasswdCmd.Flags().Int64Var(&passwdUserID, "user", 0, "account id (admin only)")
	usersPasswdCmd.Flags().StringVar(&passwdAtual, "atual", "", "current password")
	usersPasswdCmd.Flags().StringVar(&passwdNova, "nova", "", "new password")
	_ = usersPasswdCmd.MarkFlagRequired("nova")

	usersCmd.AddCommand(usersListCmd, usersShowCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd, usersPasswdCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	res, err := client.UploadReport(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	fmt.Fprintf(out, "Inseridos: %d  Duplicatas evitadas: %d  Processados: %d\n",
		res.RegistrosInseridos, res.DuplicatasEvitadas, res.TotalProcessados)
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	d, err := client.Dashboard(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Label.Render("B.O.s")+strconv.Itoa(d.TotalBOs.Quantidade))
	fmt.Fprintln(out, styles.Label.Render("Infratores")+strconv.Itoa(d.TotalOffenders.Quantidade))
	fmt.Fprintln(out, styles.Label.Render("Vítimas")+strconv.Itoa(d.TotalVictims.Quantidade))
	fmt.Fprintln(out)

	sex := view.Table{Headers: []string{"Sexo", "Vítimas"}}
	for _, s := range d.VictimsBySex {
		sex.AddRow(s.Sexo, strconv.Itoa(s.Quantidade))
	}
	fmt.Fprintln(out, sex.Render(styles))

	age := view.Table{Headers: []string{"Faixa etária", "Vítimas"}}
	for _, a := range d.VictimsByAge {
		age.AddRow(a.FaixaEtaria, strconv.Itoa(a.Quantidade))
	}
	fmt.Fprintln(out, age.Render(styles))

	station := view.Table{Headers: []string{"Delegacia", "Infratores"}}
	for _, s := range d.OffendersByStation {
		station.AddRow(s.Delegacia, strconv.Itoa(s.Quantidade))
	}
	fmt.Fprint(out, station.Render(styles))
	return nil
}

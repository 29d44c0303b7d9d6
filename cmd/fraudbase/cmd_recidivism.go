package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DukeRupert/fraudbase/internal/client/export"
	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/client/recidivism"
	"github.com/DukeRupert/fraudbase/internal/client/view"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
	"github.com/DukeRupert/fraudbase/internal/report"
)

var (
	recidivismPage int
	exportStyle    string
	exportRemote   bool
	exportDir      string
)

var recidivismCmd = &cobra.Command{
	Use:     "recidivism",
	Aliases: []string{"reincidencia"},
	Short:   "Offenders with more than one report, by CPF",
}

var recidivismListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show one page of the ranking as a chart and a table",
	Args:  cobra.NoArgs,
	RunE:  runRecidivismList,
}

var recidivismShowCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Show the reports and risk tier of the n-th offender of the page",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecidivismShow,
}

var recidivismExportCmd = &cobra.Command{
	Use:   "export <n>",
	Short: "Save the n-th offender's report as PDF",
	Long: `Renders the recidivism report of the n-th offender of the page.

Styles:
  colorido       keeps the screen colours and badges
  monocromatico  black on white, for printing

With --remote the server renders the report and the file is downloaded
when ready.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecidivismExport,
}

var recidivismPhoneCmd = &cobra.Command{
	Use:   "phones",
	Short: "Phone numbers shared by more than one offender record",
	Args:  cobra.NoArgs,
	RunE:  runRecidivismPhones,
}

func init() {
	recidivismCmd.PersistentFlags().IntVar(&recidivismPage, "page", 1, "ranking page")
	recidivismExportCmd.Flags().StringVar(&exportStyle, "estilo", string(domain.ReportStyleStyled), "colorido or monocromatico")
	recidivismExportCmd.Flags().BoolVar(&exportRemote, "remote", false, "render on the server")
	recidivismExportCmd.Flags().StringVar(&exportDir, "dir", ".", "output directory")

	recidivismCmd.AddCommand(recidivismListCmd, recidivismShowCmd, recidivismExportCmd, recidivismPhoneCmd)
}

func loadRanking(cmd *cobra.Command) (*recidivism.Aggregator, error) {
	agg := recidivism.New(client, logger)
	_, n := agg.FetchPage(cmd.Context(), recidivismPage)
	if err := printNotice(cmd, n); err != nil {
		return nil, err
	}
	return agg, nil
}

// selectIndex parses a 1-based position on the page.
func selectIndex(cmd *cobra.Command, agg *recidivism.Aggregator, arg string) (recidivism.Detail, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return recidivism.Detail{}, printNotice(cmd, notify.Warn("Posição inválida: "+arg))
	}
	d, err := agg.Select(n - 1)
	if err != nil {
		return recidivism.Detail{}, printNotice(cmd, notify.Warn(fmt.Sprintf("Posição %d fora da página.", n)))
	}
	return d, nil
}

func runRecidivismList(cmd *cobra.Command, args []string) error {
	agg, err := loadRanking(cmd)
	if err != nil {
		return err
	}

	page := agg.Page()
	if len(page.Data) == 0 {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, view.RenderBars(styles, agg.Series()))
	fmt.Fprint(out, view.RenderCards(styles, agg.Cards(), page.Index()*page.Limit))
	if page.Paginated() {
		fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("Página %d de %d", page.Page, page.TotalPages)))
	}
	return nil
}

func runRecidivismShow(cmd *cobra.Command, args []string) error {
	agg, err := loadRanking(cmd)
	if err != nil {
		return err
	}
	d, err := selectIndex(cmd, agg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), view.RenderRecidivismDetail(styles, d))
	return nil
}

func runRecidivismExport(cmd *cobra.Command, args []string) error {
	style := domain.ReportStyle(exportStyle)
	if !style.IsValid() {
		return printNotice(cmd, notify.Warn("Estilo inválido: use colorido ou monocromatico."))
	}

	agg, err := loadRanking(cmd)
	if err != nil {
		return err
	}
	d, err := selectIndex(cmd, agg, args[0])
	if err != nil {
		return err
	}

	exporter := export.New(
		report.NewRegistry(report.NewStyledGenerator(), report.NewMonochromeGenerator(nil, logger)),
		client,
		logger,
	)
	exporter.Dir = exportDir

	var n notify.Notification
	if exportRemote {
		_, n = exporter.Remote(cmd.Context(), d.Record.CPF, style)
	} else {
		_, n = exporter.Local(cmd.Context(), d.Record, style, sess.Current().Nome)
	}
	return printNotice(cmd, n)
}

func runRecidivismPhones(cmd *cobra.Command, args []string) error {
	page, err := client.RecidivismByPhone(cmd.Context(), recidivismPage, domain.RecidivismPageSize)
	if err != nil {
		logger.Warn("failed to load phone recidivism", "error", err)
		return printNotice(cmd, notify.Error("Erro ao carregar dados de reincidência."))
	}
	if len(page.Data) == 0 {
		return printNotice(cmd, notify.Info("Nenhuma reincidência encontrada."))
	}

	t := view.Table{Headers: []string{"Telefone", "Nomes", "Ocorrências", "B.O.s"}}
	for _, r := range page.Data {
		t.AddRow(field.FormatPhone(r.Telefone), r.Nomes, strconv.Itoa(r.Quantidade), r.NumerosBO)
	}
	fmt.Fprint(cmd.OutOrStdout(), t.Render(styles))
	return nil
}

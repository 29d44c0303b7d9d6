package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/client/search"
	"github.com/DukeRupert/fraudbase/internal/client/view"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

var (
	searchFilters field.FilterSet
	searchPage    int
	searchLimit   int
	searchWide    bool
	searchBrowse  bool

	registerPerson domain.Person
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search persons by name, CPF, B.O. or phone",
	Long: `Runs a faceted search. At least one filter must be usable: a name or
B.O. with 3 characters, a CPF with 11 digits, or a phone with 3 digits.

With --browse the results stay open and commands are read from stdin:
  n / p      next or previous page
  g <n>      go to page n
  l <n>      change the page size and return to page 1
  d <n>      open row n of the current page
  q          quit

Example:
  fraudbase search --nome "maria silva" --limit 25`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var detailCmd = &cobra.Command{
	Use:   "detail <id>",
	Short: "Show every field of one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetail,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a person record manually",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := client.CreatePerson(cmd.Context(), registerPerson)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Envolvido cadastrado com id %d.\n", created.ID)
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFilters.Nome, "nome", "", "name (accents and case ignored)")
	f.StringVar(&searchFilters.CPF, "cpf", "", "CPF, masked or digits")
	f.StringVar(&searchFilters.BO, "bo", "", "B.O. number")
	f.StringVar(&searchFilters.Telefone, "telefone", "", "phone")
	f.IntVar(&searchPage, "page", 1, "page number")
	f.IntVar(&searchLimit, "limit", search.DefaultLimit, "rows per page (5, 10 or 25)")
	f.BoolVar(&searchWide, "wide", false, "print the full crime nature")
	f.BoolVarP(&searchBrowse, "browse", "b", false, "keep the results open and page through them")

	r := registerCmd.Flags()
	r.StringVar(&registerPerson.NumeroBO, "bo", "", "B.O. number")
	r.StringVar(&registerPerson.TipoEnvolvido, "tipo", domain.RoleOffender, "role in the report")
	r.StringVar(&registerPerson.NomeCompleto, "nome", "", "full name")
	r.StringVar(&registerPerson.CPF, "cpf", "", "CPF")
	r.StringVar(&registerPerson.NomeMae, "mae", "", "mother's name")
	r.StringVar(&registerPerson.Nascimento, "nascimento", "", "birth date (yyyy-mm-dd)")
	r.StringVar(&registerPerson.SexoEnvolvido, "sexo", "", "sex")
	r.StringVar(&registerPerson.TelefoneEnvolvido, "telefone", "", "phone")
	r.StringVar(&registerPerson.DataFato, "data-fato", "", "incident date (yyyy-mm-dd)")
	r.StringVar(&registerPerson.Natureza, "natureza", "", "crime nature")
	r.StringVar(&registerPerson.DelegaciaResponsavel, "delegacia", "", "police station")
	r.StringVar(&registerPerson.MunicipioFato, "municipio", "", "incident city")
	_ = registerCmd.MarkFlagRequired("bo")
	_ = registerCmd.MarkFlagRequired("nome")
}

const msgNoFilters = "Nenhum filtro informado. Use --nome, --cpf, --bo ou --telefone."

func runSearch(cmd *cobra.Command, args []string) error {
	if searchFilters.IsEmpty() {
		return printNotice(cmd, notify.Warn(msgNoFilters))
	}

	searcher := search.New(client, logger)
	out := searcher.Search(cmd.Context(), searchFilters, searchPage, searchLimit)
	if out.Kind != search.KindSuccess {
		return printNotice(cmd, out.Notice)
	}

	opts := view.PageOptions{Wide: searchWide}
	fmt.Fprint(cmd.OutOrStdout(), view.RenderPage(styles, out.Page, opts))
	if err := printNotice(cmd, out.Notice); err != nil || !searchBrowse {
		return err
	}

	presenter := view.NewPresenter(client, logger)
	presenter.SetPage(out.Page)
	return browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), searcher, presenter, opts)
}

// browse reads pager commands from in until "q" or EOF. Failed page loads
// and detail fetches print their notification and keep the current page.
func browse(ctx context.Context, in io.Reader, w io.Writer, s *search.Searcher, p *view.Presenter, opts view.PageOptions) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !sc.Scan() {
			fmt.Fprintln(w)
			return sc.Err()
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		n, _ := strconv.Atoi(strings.TrimSpace(arg))
		page := p.Page()

		var out search.Outcome
		switch verb {
		case "q":
			return nil
		case "", "n":
			if page.Page >= page.TotalPages {
				fmt.Fprintln(w, styles.Notification(notify.Info("Última página.")))
				continue
			}
			out = s.ChangePage(ctx, page.Page+1)
		case "p":
			if page.Page <= 1 {
				fmt.Fprintln(w, styles.Notification(notify.Info("Primeira página.")))
				continue
			}
			out = s.ChangePage(ctx, page.Page-1)
		case "g":
			out = s.ChangePage(ctx, n)
		case "l":
			out = s.ChangePageSize(ctx, n)
		case "d":
			if n < 1 || n > len(page.Data) {
				fmt.Fprintln(w, styles.Notification(notify.Warn(fmt.Sprintf("Linha inválida: %s", arg))))
				continue
			}
			person, notice := p.Detail(ctx, page.Data[n-1].ID)
			if person == nil {
				fmt.Fprintln(w, styles.Notification(notice))
				continue
			}
			fmt.Fprint(w, view.RenderDetail(styles, person))
			continue
		default:
			fmt.Fprintln(w, styles.Notification(notify.Warn("Comando desconhecido: "+verb)))
			continue
		}

		if out.Kind == search.KindSuccess {
			p.SetPage(out.Page)
			fmt.Fprint(w, view.RenderPage(styles, out.Page, opts))
		}
		if !out.Notice.IsZero() {
			fmt.Fprintln(w, styles.Notification(out.Notice))
		}
	}
}

func runDetail(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return printNotice(cmd, notify.Warn("ID inválido: "+args[0]))
	}

	presenter := view.NewPresenter(client, logger)
	person, n := presenter.Detail(cmd.Context(), id)
	if person == nil {
		return printNotice(cmd, n)
	}
	fmt.Fprint(cmd.OutOrStdout(), view.RenderDetail(styles, person))
	return nil
}

package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

const msgDetailFailed = "Erro ao carregar detalhes do envolvido."

// PersonFetcher loads one record. *api.Client satisfies it.
type PersonFetcher interface {
	GetPerson(ctx context.Context, id int64) (*domain.Person, error)
}

// Presenter holds the page on screen and the record opened from it.
type Presenter struct {
	api    PersonFetcher
	logger *slog.Logger

	mu     sync.Mutex
	page   domain.Page[domain.Person]
	detail *domain.Person
}

// NewPresenter creates a Presenter with an empty page.
func NewPresenter(api PersonFetcher, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{
		api:    api,
		logger: logger,
		page:   domain.EmptyPage[domain.Person](1, 10),
	}
}

// SetPage replaces the page on screen and closes any open detail.
func (p *Presenter) SetPage(page domain.Page[domain.Person]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = page
	p.detail = nil
}

// Page returns the page on screen.
func (p *Presenter) Page() domain.Page[domain.Person] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Current returns the open record, or nil.
func (p *Presenter) Current() *domain.Person {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detail
}

// Detail fetches and opens record id. On failure no record is opened and
// the page is left as it was.
func (p *Presenter) Detail(ctx context.Context, id int64) (*domain.Person, notify.Notification) {
	person, err := p.api.GetPerson(ctx, id)
	if err != nil {
		p.logger.Warn("failed to load person detail", "id", id, "error", err)
		return nil, notify.Error(msgDetailFailed)
	}

	p.mu.Lock()
	p.detail = person
	p.mu.Unlock()
	return person, notify.Notification{}
}

// RenderDetail prints every non-empty field of a record as label/value
// lines, grouped by section.
func RenderDetail(styles Styles, person *domain.Person) string {
	if person == nil {
		return ""
	}

	sections := []struct {
		title  string
		fields [][2]string
	}{
		{"Envolvido", [][2]string{
			{"Nome", person.NomeCompleto},
			{"Envolvimento", person.TipoEnvolvido},
			{"CPF", field.FormatCPF(person.CPF)},
			{"Nome da mãe", person.NomeMae},
			{"Nascimento", person.Nascimento},
			{"Sexo", person.SexoEnvolvido},
			{"Nacionalidade", person.Nacionalidade},
			{"Naturalidade", person.Naturalidade},
			{"UF", person.UFEnvolvido},
			{"Telefone", field.FormatPhone(person.TelefoneEnvolvido)},
		}},
		{"Registro", [][2]string{
			{"B.O.", person.NumeroBO},
			{"Delegacia", person.DelegaciaResponsavel},
			{"Situação", person.Situacao},
			{"Natureza", person.Natureza},
		}},
		{"Fato", [][2]string{
			{"Data", person.DataFato},
			{"CEP", person.CEPFato},
			{"Logradouro", person.LogradouroFato},
			{"Número", person.NumeroCasaFato},
			{"Bairro", person.BairroFato},
			{"Município", person.MunicipioFato},
			{"País", person.PaisFato},
			{"Latitude", person.LatitudeFato},
			{"Longitude", person.LongitudeFato},
		}},
		{"Dados financeiros", [][2]string{
			{"Instituição bancária", person.InstituicaoBancaria},
			{"Agência", person.NumeroAgenciaBancaria},
			{"Conta", person.NumeroContaBancaria},
			{"PIX", person.PixUtilizado},
			{"Valor", person.Valor},
			{"Boleto", person.NumeroBoleto},
			{"Cartão", person.Cartao},
			{"Tipo de pagamento", person.TipoPagamento},
			{"Processo no banco", person.ProcessoBanco},
			{"Órgão/concessionária", person.OrgaoConcessionaria},
		}},
		{"Dados técnicos", [][2]string{
			{"Endereço IP", person.EnderecoIP},
			{"Terminal", person.Terminal},
			{"Terminal de conexão", person.TerminalConexao},
			{"ERB", person.ERB},
			{"Veículo", person.Veiculo},
		}},
		{"Investigação", [][2]string{
			{"Operação policial", person.OperacaoPolicial},
			{"Laudo pericial", person.NumeroLaudoPericial},
		}},
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(person.NomeCompleto))
	sb.WriteString("\n")
	for _, sec := range sections {
		var lines []string
		for _, f := range sec.fields {
			if strings.TrimSpace(f[1]) == "" {
				continue
			}
			lines = append(lines, styles.Label.Render(f[0])+f[1])
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(styles.Header.Render(sec.title))
		sb.WriteString("\n")
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}
	if relato := strings.TrimSpace(person.RelatoHistorico); relato != "" {
		sb.WriteString(styles.Header.Render("Relato histórico"))
		sb.WriteString("\n")
		sb.WriteString(relato)
		sb.WriteString("\n")
	}
	return sb.String()
}

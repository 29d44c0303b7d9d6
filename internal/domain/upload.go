package domain

// Upload constraints for spreadsheet imports.
const (
	UploadFormField      = "relatorio"
	UploadExtension      = ".xlsx"
	UploadNameMarker     = "resultado_da_pesquisa_bo_"
	DefaultUploadMaxSize = 10 << 20
	ImportBatchSize      = 500
)

// ImportRow is one person row assembled from the four report sheets.
// The column set matches what bulk import writes; the remaining Person
// fields are filled only by manual registration.
type ImportRow struct {
	NumeroBO             string
	DelegaciaResponsavel string
	Situacao             string
	Natureza             string
	DataFato             string
	CEPFato              string
	LatitudeFato         string
	LongitudeFato        string
	LogradouroFato       string
	NumeroCasaFato       string
	BairroFato           string
	MunicipioFato        string
	PaisFato             string
	TipoEnvolvido        string
	NomeCompleto         string
	CPF                  string
	NomeMae              string
	Nascimento           string
	Nacionalidade        string
	Naturalidade         string
	UFEnvolvido          string
	SexoEnvolvido        string
	TelefoneEnvolvido    string
	RelatoHistorico      string
}

// DedupKey identifies a row for duplicate detection across imports.
func (r ImportRow) DedupKey() string {
	return r.NumeroBO + "\x1f" + r.CPF + "\x1f" + r.NomeCompleto + "\x1f" + r.TipoEnvolvido
}

// ImportResult summarizes an upload.
type ImportResult struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	RegistrosInseridos int    `json:"registrosInseridos"`
	DuplicatasEvitadas int    `json:"duplicatasEvitadas"`
	TotalProcessados   int    `json:"totalProcessados"`
	ArquivoArmazenado  string `json:"arquivoArmazenado,omitempty"`
}

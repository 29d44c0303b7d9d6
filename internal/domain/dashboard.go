package domain

// SexCount is the victim count for one sex.
type SexCount struct {
	Sexo       string `json:"sexo"`
	Quantidade int    `json:"quantidade"`
}

// AgeBracketCount is the victim count for one age bracket.
type AgeBracketCount struct {
	FaixaEtaria string `json:"faixa_etaria"`
	Quantidade  int    `json:"quantidade"`
}

// Age bracket labels.
const (
	AgeUpTo20 = "Menores ou igual a 20 anos"
	Age21To40 = "De 21 a 40 anos"
	Age41To60 = "De 41 a 60 anos"
	AgeOver60 = "Maiores de 60 anos"
)

// Count wraps a single total.
type Count struct {
	Quantidade int `json:"quantidade"`
}

// StationCount is the offender count for one police station.
type StationCount struct {
	Delegacia  string `json:"delegacia_responsavel"`
	Quantidade int    `json:"quantidade"`
}

// BOStatistics reports the newest and oldest report numbers on file.
type BOStatistics struct {
	RecentBOs []string `json:"recentBOs"`
	OldestBO  string   `json:"oldestBO"`
}

// CleanupResult reports the outcome of duplicate removal.
type CleanupResult struct {
	TotalAntes  int `json:"totalAntes"`
	TotalDepois int `json:"totalDepois"`
	RowsRemoved int `json:"rowsRemoved"`
}

// LookupItem is one entry of an auxiliary list (bank, station, country...).
type LookupItem struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// Municipality is a city with its state.
type Municipality struct {
	ID        int64  `json:"id"`
	Municipio string `json:"municipio"`
	UF        string `json:"uf"`
}

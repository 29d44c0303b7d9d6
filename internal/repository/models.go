package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Usuario struct {
	ID              int64
	Login           string
	Nome            string
	Cpf             string
	Matricula       string
	Telefone        string
	Cidade          string
	Estado          string
	UnidadePolicial string
	Email           string
	Senha           string
	IsAdmin         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Job struct {
	ID           uuid.UUID
	JobType      string
	Payload      []byte
	Status       string
	Priority     int32
	Attempts     int32
	MaxAttempts  int32
	ScheduledAt  time.Time
	StartedAt    sql.NullTime
	CompletedAt  sql.NullTime
	ErrorMessage sql.NullString
	Result       pqtype.NullRawMessage
	CreatedAt    time.Time
}

type GeneratedReport struct {
	ID          uuid.UUID
	Cpf         string
	Style       string
	Status      string
	StorageKey  sql.NullString
	SizeBytes   sql.NullInt64
	Error       sql.NullString
	RequestedBy int64
	CreatedAt   time.Time
	CompletedAt sql.NullTime
}

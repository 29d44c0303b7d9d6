package repository

import (
	"context"
)

const usuarioColumns = `id, login, nome, cpf, matricula, telefone, cidade, estado,
    unidade_policial, email, senha, is_admin, created_at, updated_at`

func scanUsuario(row rowScanner, u *Usuario) error {
	return row.Scan(
		&u.ID,
		&u.Login,
		&u.Nome,
		&u.Cpf,
		&u.Matricula,
		&u.Telefone,
		&u.Cidade,
		&u.Estado,
		&u.UnidadePolicial,
		&u.Email,
		&u.Senha,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

const getUsuarioByID = `-- name: GetUsuarioByID :one
SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = $1
`

func (q *Queries) GetUsuarioByID(ctx context.Context, id int64) (Usuario, error) {
	row := q.db.QueryRowContext(ctx, getUsuarioByID, id)
	var i Usuario
	err := scanUsuario(row, &i)
	return i, err
}

const getUsuarioByLogin = `-- name: GetUsuarioByLogin :one
SELECT ` + usuarioColumns + ` FROM usuarios WHERE login = $1
`

func (q *Queries) GetUsuarioByLogin(ctx context.Context, login string) (Usuario, error) {
	row := q.db.QueryRowContext(ctx, getUsuarioByLogin, login)
	var i Usuario
	err := scanUsuario(row, &i)
	return i, err
}

const listUsuarios = `-- name: ListUsuarios :many
SELECT ` + usuarioColumns + ` FROM usuarios ORDER BY nome, id
`

func (q *Queries) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	rows, err := q.db.QueryContext(ctx, listUsuarios)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Usuario
	for rows.Next() {
		var i Usuario
		if err := scanUsuario(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUsuarios = `-- name: CountUsuarios :one
SELECT COUNT(*) FROM usuarios
`

func (q *Queries) CountUsuarios(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUsuarios)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createUsuario = `-- name: CreateUsuario :one
INSERT INTO usuarios (
    login, nome, cpf, matricula, telefone, cidade, estado,
    unidade_policial, email, senha, is_admin
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
RETURNING ` + usuarioColumns + `
`

type CreateUsuarioParams struct {
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
}

func (q *Queries) CreateUsuario(ctx context.Context, arg CreateUsuarioParams) (Usuario, error) {
	row := q.db.QueryRowContext(ctx, createUsuario,
		arg.Login,
		arg.Nome,
		arg.Cpf,
		arg.Matricula,
		arg.Telefone,
		arg.Cidade,
		arg.Estado,
		arg.UnidadePolicial,
		arg.Email,
		arg.Senha,
		arg.IsAdmin,
	)
	var i Usuario
	err := scanUsuario(row, &i)
	return i, err
}

const updateUsuario = `-- name: UpdateUsuario :one
UPDATE usuarios
SET login = $2,
    nome = $3,
    cpf = $4,
    matricula = $5,
    telefone = $6,
    cidade = $7,
    estado = $8,
    unidade_policial = $9,
    email = $10,
    is_admin = $11,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + usuarioColumns + `
`

type UpdateUsuarioParams struct {
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
	IsAdmin         bool
}

func (q *Queries) UpdateUsuario(ctx context.Context, arg UpdateUsuarioParams) (Usuario, error) {
	row := q.db.QueryRowContext(ctx, updateUsuario,
		arg.ID,
		arg.Login,
		arg.Nome,
		arg.Cpf,
		arg.Matricula,
		arg.Telefone,
		arg.Cidade,
		arg.Estado,
		arg.UnidadePolicial,
		arg.Email,
		arg.IsAdmin,
	)
	var i Usuario
	err := scanUsuario(row, &i)
	return i, err
}

const updateUsuarioSenha = `-- name: UpdateUsuarioSenha :execrows
UPDATE usuarios SET senha = $2, updated_at = NOW() WHERE id = $1
`

type UpdateUsuarioSenhaParams struct {
	ID    int64
	Senha string
}

func (q *Queries) UpdateUsuarioSenha(ctx context.Context, arg UpdateUsuarioSenhaParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUsuarioSenha, arg.ID, arg.Senha)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteUsuario = `-- name: DeleteUsuario :execrows
DELETE FROM usuarios WHERE id = $1
`

func (q *Queries) DeleteUsuario(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUsuario, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Package domain contains core business types and interfaces.
//
// This file defines the User domain type and the parameter types used by
// account management and login.
package domain

import "time"

// User is an operator account. The password hash never leaves the server.
type User struct {
	ID              int64     `json:"id"`
	Login           string    `json:"login"`
	Nome            string    `json:"nome"`
	CPF             string    `json:"cpf"`
	Matricula       string    `json:"matricula"`
	Telefone        string    `json:"telefone"`
	Cidade          string    `json:"cidade"`
	Estado          string    `json:"estado"`
	UnidadePolicial string    `json:"unidade_policial"`
	Email           string    `json:"email"`
	IsAdmin         bool      `json:"is_admin"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName returns the user's name, or the login if no name is set.
func (u *User) DisplayName() string {
	if u.Nome != "" {
		return u.Nome
	}
	return u.Login
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	IsAdmin  bool   `json:"isAdmin"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Nome     string `json:"nome"`
}

// UserParams carries the writable account fields for create and update.
// Senha is optional on update; when empty the password is left unchanged.
type UserParams struct {
	ID              int64  `json:"id,omitempty"`
	Login           string `json:"login"`
	Nome            string `json:"nome"`
	CPF             string `json:"cpf"`
	Matricula       string `json:"matricula"`
	Telefone        string `json:"telefone"`
	Cidade          string `json:"cidade"`
	Estado          string `json:"estado"`
	UnidadePolicial string `json:"unidade_policial"`
	Email           string `json:"email"`
	Senha           string `json:"senha,omitempty"`
	IsAdmin         bool   `json:"is_admin"`
}

// PasswordChangeParams holds the data needed to change a password.
type PasswordChangeParams struct {
	UserID      int64  `json:"userId"`
	SenhaAtual  string `json:"senhaAtual"`
	NovaSenha   string `json:"novaSenha"`
	RequesterID int64  `json:"-"`
	IsAdmin     bool   `json:"-"`
}

// Package service contains the business logic layer.
//
// Services orchestrate interactions between repositories, storage, the job
// queue and domain logic. They are responsible for:
// - Input validation
// - Business rule enforcement
// - Transaction coordination
// - Error translation (database errors -> domain errors)
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
	"github.com/DukeRupert/fraudbase/internal/metrics"
	"github.com/DukeRupert/fraudbase/internal/repository"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// BcryptCost is the cost factor for bcrypt password hashing.
	BcryptCost = 12

	// MinPasswordLength is the minimum password length.
	MinPasswordLength = 8

	// MaxPasswordLength matches bcrypt's 72-byte input limit.
	MaxPasswordLength = 72

	// DefaultAdminLogin is the account seeded on an empty database.
	DefaultAdminLogin = "admin"
)

// Generic messages. Login failures never say which half was wrong.
const (
	msgInvalidCredentials = "Usuário ou senha inválidos"
	msgSessionExpired     = "Sessão inválida ou expirada"
)

// dummyHash keeps login timing constant when the account does not exist.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// =============================================================================
// Interface Definition
// =============================================================================

// UserService defines account, login and token operations.
type UserService interface {
	// Login checks credentials and issues a bearer token.
	// Returns domain.EUNAUTHORIZED for unknown login or wrong password.
	Login(ctx context.Context, login, password string) (*domain.LoginResult, error)

	// Authenticate validates a bearer token and loads its user.
	// Returns domain.EUNAUTHORIZED if the token is invalid, expired, or
	// belongs to a deleted account.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	// List returns every account ordered by name.
	List(ctx context.Context) ([]domain.User, error)

	// GetByID returns domain.ENOTFOUND if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Create registers an account. Returns domain.ECONFLICT when the login
	// or email is taken.
	Create(ctx context.Context, params domain.UserParams) (*domain.User, error)

	// Update rewrites the account fields. A non-empty Senha also resets the
	// password.
	Update(ctx context.Context, params domain.UserParams) (*domain.User, error)

	// ChangePassword sets a new password. Users changing their own password
	// must present the current one; admins may reset anyone's.
	ChangePassword(ctx context.Context, params domain.PasswordChangeParams) error

	// Delete removes an account. An admin cannot delete their own account.
	Delete(ctx context.Context, id, requesterID int64) error

	// EnsureDefaultAdmin creates the "admin" account when no user exists.
	EnsureDefaultAdmin(ctx context.Context, password string) error
}

// =============================================================================
// Implementation
// =============================================================================

type userService struct {
	queries *repository.Queries
	tokens  *auth.TokenManager
	logger  *slog.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(queries *repository.Queries, tokens *auth.TokenManager, logger *slog.Logger) UserService {
	return &userService{
		queries: queries,
		tokens:  tokens,
		logger:  logger,
	}
}

func (s *userService) Login(ctx context.Context, login, password string) (*domain.LoginResult, error) {
	const op = "UserService.Login"

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domain.Invalid(op, "Usuário e senha são obrigatórios")
	}

	repoUser, err := s.queries.GetUsuarioByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.Unauthorized(op, msgInvalidCredentials)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(repoUser.Senha), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.Unauthorized(op, msgInvalidCredentials)
	}

	user := repoUserToDomain(repoUser)
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to issue token")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", "user_id", user.ID, "login", user.Login)

	return &domain.LoginResult{
		Token:    token,
		IsAdmin:  user.IsAdmin,
		UserID:   user.ID,
		Username: user.Login,
		Nome:     user.Nome,
	}, nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	const op = "UserService.Authenticate"

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.Wrap(err, domain.EUNAUTHORIZED, op, msgSessionExpired)
	}
	id, _ := claims.UserID()

	repoUser, err := s.queries.GetUsuarioByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Unauthorized(op, msgSessionExpired)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}

	return repoUserToDomain(repoUser), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	const op = "UserService.List"

	rows, err := s.queries.ListUsuarios(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list users")
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *repoUserToDomain(row))
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const op = "UserService.GetByID"

	repoUser, err := s.queries.GetUsuarioByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "Usuário", formatID(id))
		}
		return nil, domain.Internal(err, op, "Failed to retrieve user")
	}
	return repoUserToDomain(repoUser), nil
}

func (s *userService) Create(ctx context.Context, params domain.UserParams) (*domain.User, error) {
	const op = "UserService.Create"

	params = normalizeUserParams(params)
	if ve := validateUserParams(op, params, true); ve != nil {
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Senha), BcryptCost)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to hash password")
	}

	repoUser, err := s.queries.CreateUsuario(ctx, repository.CreateUsuarioParams{
		Login:           params.Login,
		Nome:            params.Nome,
		Cpf:             params.CPF,
		Matricula:       params.Matricula,
		Telefone:        params.Telefone,
		Cidade:          params.Cidade,
		Estado:          params.Estado,
		UnidadePolicial: params.UnidadePolicial,
		Email:           params.Email,
		Senha:           string(hash),
		IsAdmin:         params.IsAdmin,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "Login ou e-mail já cadastrado")
		}
		return nil, domain.Internal(err, op, "Failed to create user")
	}

	user := repoUserToDomain(repoUser)
	s.logger.Info("user created", "user_id", user.ID, "login", user.Login, "is_admin", user.IsAdmin)
	return user, nil
}

func (s *userService) Update(ctx context.Context, params domain.UserParams) (*domain.User, error) {
	const op = "UserService.Update"

	if params.ID <= 0 {
		return nil, domain.Invalid(op, "ID do usuário é obrigatório")
	}
	params = normalizeUserParams(params)
	if ve := validateUserParams(op, params, false); ve != nil {
		return nil, ve
	}

	repoUser, err := s.queries.UpdateUsuario(ctx, repository.UpdateUsuarioParams{
		ID:              params.ID,
		Login:           params.Login,
		Nome:            params.Nome,
		Cpf:             params.CPF,
		Matricula:       params.Matricula,
		Telefone:        params.Telefone,
		Cidade:          params.Cidade,
		Estado:          params.Estado,
		UnidadePolicial: params.UnidadePolicial,
		Email:           params.Email,
		IsAdmin:         params.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "Usuário", formatID(params.ID))
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "Login ou e-mail já cadastrado")
		}
		return nil, domain.Internal(err, op, "Failed to update user")
	}

	if params.Senha != "" {
		if err := s.setPassword(ctx, op, params.ID, params.Senha); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user updated", "user_id", params.ID)
	return repoUserToDomain(repoUser), nil
}

func (s *userService) ChangePassword(ctx context.Context, params domain.PasswordChangeParams) error {
	const op = "UserService.ChangePassword"

	if params.UserID <= 0 {
		return domain.Invalid(op, "ID do usuário é obrigatório")
	}
	self := params.UserID == params.RequesterID
	if !self && !params.IsAdmin {
		return domain.Forbidden(op, "Sem permissão para alterar a senha deste usuário")
	}

	repoUser, err := s.queries.GetUsuarioByID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "Usuário", formatID(params.UserID))
		}
		return domain.Internal(err, op, "Failed to retrieve user")
	}

	if self {
		if err := bcrypt.CompareHashAndPassword([]byte(repoUser.Senha), []byte(params.SenhaAtual)); err != nil {
			return domain.Unauthorized(op, "Senha atual incorreta")
		}
	}

	if err := s.setPassword(ctx, op, params.UserID, params.NovaSenha); err != nil {
		return err
	}

	s.logger.Info("user password changed", "user_id", params.UserID, "requester_id", params.RequesterID)
	return nil
}

func (s *userService) Delete(ctx context.Context, id, requesterID int64) error {
	const op = "UserService.Delete"

	if id == requesterID {
		return domain.Invalid(op, "Não é possível excluir o próprio usuário")
	}

	n, err := s.queries.DeleteUsuario(ctx, id)
	if err != nil {
		return domain.Internal(err, op, "Failed to delete user")
	}
	if n == 0 {
		return domain.NotFound(op, "Usuário", formatID(id))
	}

	s.logger.Info("user deleted", "user_id", id, "requester_id", requesterID)
	return nil
}

func (s *userService) EnsureDefaultAdmin(ctx context.Context, password string) error {
	const op = "UserService.EnsureDefaultAdmin"

	count, err := s.queries.CountUsuarios(ctx)
	if err != nil {
		return domain.Internal(err, op, "Failed to count users")
	}
	if count > 0 {
		return nil
	}

	_, err = s.Create(ctx, domain.UserParams{
		Login:   DefaultAdminLogin,
		Nome:    "Administrador",
		Email:   "admin@fraudbase.local",
		Senha:   password,
		IsAdmin: true,
	})
	if err != nil {
		return err
	}

	s.logger.Warn("default admin account created, change its password", "login", DefaultAdminLogin)
	return nil
}

func (s *userService) setPassword(ctx context.Context, op string, id int64, password string) error {
	if err := validatePassword(password); err != nil {
		return domain.Wrap(err, domain.EINVALID, op, domain.ErrorMessage(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return domain.Internal(err, op, "Failed to hash password")
	}

	n, err := s.queries.UpdateUsuarioSenha(ctx, repository.UpdateUsuarioSenhaParams{
		ID:    id,
		Senha: string(hash),
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to update password")
	}
	if n == 0 {
		return domain.NotFound(op, "Usuário", formatID(id))
	}
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

func repoUserToDomain(u repository.Usuario) *domain.User {
	return &domain.User{
		ID:              u.ID,
		Login:           u.Login,
		Nome:            u.Nome,
		CPF:             u.Cpf,
		Matricula:       u.Matricula,
		Telefone:        u.Telefone,
		Cidade:          u.Cidade,
		Estado:          u.Estado,
		UnidadePolicial: u.UnidadePolicial,
		Email:           u.Email,
		IsAdmin:         u.IsAdmin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func normalizeUserParams(p domain.UserParams) domain.UserParams {
	p.Login = strings.TrimSpace(p.Login)
	p.Nome = strings.TrimSpace(p.Nome)
	p.CPF = field.Digits(p.CPF)
	p.Telefone = field.Digits(p.Telefone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Matricula = strings.TrimSpace(p.Matricula)
	p.Cidade = strings.TrimSpace(p.Cidade)
	p.Estado = strings.TrimSpace(p.Estado)
	p.UnidadePolicial = strings.TrimSpace(p.UnidadePolicial)
	return p
}

// validateUserParams returns nil when params are acceptable. The password
// is only required on create.
func validateUserParams(op string, p domain.UserParams, create bool) *domain.ValidationError {
	ve := &domain.ValidationError{Op: op}
	if p.Login == "" {
		ve.Add("login", "Login é obrigatório")
	}
	if p.Nome == "" {
		ve.Add("nome", "Nome é obrigatório")
	}
	if p.CPF != "" && len(p.CPF) != 11 {
		ve.Add("cpf", "CPF deve conter 11 dígitos")
	}
	if p.Telefone != "" && (len(p.Telefone) < 10 || len(p.Telefone) > 11) {
		ve.Add("telefone", "Telefone deve conter 10 ou 11 dígitos")
	}
	if err := validateEmail(p.Email); err != nil {
		ve.Add("email", "E-mail inválido")
	}
	if create || p.Senha != "" {
		if err := validatePassword(p.Senha); err != nil {
			ve.Add("senha", domain.ErrorMessage(err))
		}
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return domain.Invalid("", "A senha deve ter pelo menos 8 caracteres")
	}
	if len(password) > MaxPasswordLength {
		return domain.Invalid("", "A senha deve ter no máximo 72 caracteres")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.Invalid("", "E-mail é obrigatório")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Invalid("", "E-mail inválido")
	}
	return nil
}

// isUniqueViolation detects a unique constraint error from the driver.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") || strings.Contains(msg, "23505")
}

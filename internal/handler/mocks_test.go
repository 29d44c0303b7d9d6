package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Mock UserService
// =============================================================================

type mockUserService struct {
	LoginFunc              func(ctx context.Context, login, password string) (*domain.LoginResult, error)
	AuthenticateFunc       func(ctx context.Context, token string) (*domain.User, error)
	ListFunc               func(ctx context.Context) ([]domain.User, error)
	GetByIDFunc            func(ctx context.Context, id int64) (*domain.User, error)
	CreateFunc             func(ctx context.Context, params domain.UserParams) (*domain.User, error)
	UpdateFunc             func(ctx context.Context, params domain.UserParams) (*domain.User, error)
	ChangePasswordFunc     func(ctx context.Context, params domain.PasswordChangeParams) error
	DeleteFunc             func(ctx context.Context, id, requesterID int64) error
	EnsureDefaultAdminFunc func(ctx context.Context, password string) error
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) Login(ctx context.Context, login, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, login, password)
	}
	return nil, errors.New("LoginFunc not implemented")
}

func (m *mockUserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	return nil, errors.New("AuthenticateFunc not implemented")
}

func (m *mockUserService) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented")
}

func (m *mockUserService) Create(ctx context.Context, params domain.UserParams) (*domain.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, errors.New("CreateFunc not implemented")
}

func (m *mockUserService) Update(ctx context.Context, params domain.UserParams) (*domain.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, params)
	}
	return nil, errors.New("UpdateFunc not implemented")
}

func (m *mockUserService) ChangePassword(ctx context.Context, params domain.PasswordChangeParams) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, params)
	}
	return nil
}

func (m *mockUserService) Delete(ctx context.Context, id, requesterID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, requesterID)
	}
	return nil
}

func (m *mockUserService) EnsureDefaultAdmin(ctx context.Context, password string) error {
	if m.EnsureDefaultAdminFunc != nil {
		return m.EnsureDefaultAdminFunc(ctx, password)
	}
	return nil
}

// =============================================================================
// Mock PersonService
// =============================================================================

type mockPersonService struct {
	SearchFunc  func(ctx context.Context, params domain.SearchParams) (*domain.Page[domain.Person], error)
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Person, error)
	CreateFunc  func(ctx context.Context, p domain.Person) (*domain.Person, error)
}

var _ service.PersonService = (*mockPersonService)(nil)

func (m *mockPersonService) Search(ctx context.Context, params domain.SearchParams) (*domain.Page[domain.Person], error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, params)
	}
	return nil, errors.New("SearchFunc not implemented")
}

func (m *mockPersonService) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented")
}

func (m *mockPersonService) Create(ctx context.Context, p domain.Person) (*domain.Person, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil, errors.New("CreateFunc not implemented")
}

// =============================================================================
// Mock RecidivismService
// =============================================================================

type mockRecidivismService struct {
	ByCPFFunc   func(ctx context.Context, page, limit int) (*domain.Page[domain.RecidivismRecord], error)
	ByPhoneFunc func(ctx context.Context, page, limit int) (*domain.Page[domain.PhoneRecidivismRecord], error)
	ForCPFFunc  func(ctx context.Context, cpf string) (*domain.RecidivismRecord, error)
}

var _ service.RecidivismService = (*mockRecidivismService)(nil)

func (m *mockRecidivismService) ByCPF(ctx context.Context, page, limit int) (*domain.Page[domain.RecidivismRecord], error) {
	if m.ByCPFFunc != nil {
		return m.ByCPFFunc(ctx, page, limit)
	}
	return nil, errors.New("ByCPFFunc not implemented")
}

func (m *mockRecidivismService) ByPhone(ctx context.Context, page, limit int) (*domain.Page[domain.PhoneRecidivismRecord], error) {
	if m.ByPhoneFunc != nil {
		return m.ByPhoneFunc(ctx, page, limit)
	}
	return nil, errors.New("ByPhoneFunc not implemented")
}

func (m *mockRecidivismService) ForCPF(ctx context.Context, cpf string) (*domain.RecidivismRecord, error) {
	if m.ForCPFFunc != nil {
		return m.ForCPFFunc(ctx, cpf)
	}
	return nil, errors.New("ForCPFFunc not implemented")
}

func (m *mockRecidivismService) ByPIX(ctx context.Context, page, limit int) error {
	return domain.NotImplemented("RecidivismService.ByPIX", "Reincidência por PIX ainda não disponível")
}

// =============================================================================
// Mock ReportService
// =============================================================================

type mockReportService struct {
	RequestFunc func(ctx context.Context, cpf string, style domain.ReportStyle, requester *domain.User) (*service.ReportTicket, error)
	GetFunc     func(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, error)
	OpenFunc    func(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error)
}

var _ service.ReportService = (*mockReportService)(nil)

func (m *mockReportService) Request(ctx context.Context, cpf string, style domain.ReportStyle, requester *domain.User) (*service.ReportTicket, error) {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, cpf, style, requester)
	}
	return nil, errors.New("RequestFunc not implemented")
}

func (m *mockReportService) Get(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, requester)
	}
	return nil, errors.New("GetFunc not implemented")
}

func (m *mockReportService) Open(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, id, requester)
	}
	return nil, nil, errors.New("OpenFunc not implemented")
}

func (m *mockReportService) PrepareReportData(ctx context.Context, cpf string, requestedBy int64) (*domain.ReportData, error) {
	return nil, errors.New("not used by handlers")
}

func (m *mockReportService) Complete(ctx context.Context, id uuid.UUID, key string, size int64) error {
	return nil
}

func (m *mockReportService) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return nil
}

// =============================================================================
// Mock DashboardService
// =============================================================================

type mockDashboardService struct {
	VictimsBySexFunc    func(ctx context.Context) ([]domain.SexCount, error)
	TotalBOsFunc        func(ctx context.Context) (domain.Count, error)
	ScheduleRefreshFunc func(ctx context.Context, reason string) (uuid.UUID, error)
}

var _ service.DashboardService = (*mockDashboardService)(nil)

func (m *mockDashboardService) VictimsBySex(ctx context.Context) ([]domain.SexCount, error) {
	if m.VictimsBySexFunc != nil {
		return m.VictimsBySexFunc(ctx)
	}
	return nil, nil
}

func (m *mockDashboardService) VictimsByAgeBracket(ctx context.Context) ([]domain.AgeBracketCount, error) {
	return nil, nil
}

func (m *mockDashboardService) TotalBOs(ctx context.Context) (domain.Count, error) {
	if m.TotalBOsFunc != nil {
		return m.TotalBOsFunc(ctx)
	}
	return domain.Count{}, nil
}

func (m *mockDashboardService) TotalOffenders(ctx context.Context) (domain.Count, error) {
	return domain.Count{}, nil
}

func (m *mockDashboardService) TotalVictims(ctx context.Context) (domain.Count, error) {
	return domain.Count{}, nil
}

func (m *mockDashboardService) OffendersByStation(ctx context.Context) ([]domain.StationCount, error) {
	return nil, nil
}

func (m *mockDashboardService) RefreshViews(ctx context.Context) error {
	return nil
}

func (m *mockDashboardService) ScheduleRefresh(ctx context.Context, reason string) (uuid.UUID, error) {
	if m.ScheduleRefreshFunc != nil {
		return m.ScheduleRefreshFunc(ctx, reason)
	}
	return uuid.Nil, errors.New("ScheduleRefreshFunc not implemented")
}

// =============================================================================
// Mock LookupService
// =============================================================================

type mockLookupService struct {
	MunicipiosFunc func(ctx context.Context, uf string) ([]domain.Municipality, error)
	UFsFunc        func(ctx context.Context) ([]string, error)
}

var _ service.LookupService = (*mockLookupService)(nil)

func (m *mockLookupService) Municipios(ctx context.Context, uf string) ([]domain.Municipality, error) {
	if m.MunicipiosFunc != nil {
		return m.MunicipiosFunc(ctx, uf)
	}
	return nil, nil
}

func (m *mockLookupService) UFs(ctx context.Context) ([]string, error) {
	if m.UFsFunc != nil {
		return m.UFsFunc(ctx)
	}
	return nil, nil
}

func (m *mockLookupService) Paises(ctx context.Context) ([]domain.LookupItem, error) { return nil, nil }
func (m *mockLookupService) Delegacias(ctx context.Context) ([]domain.LookupItem, error) {
	return nil, nil
}
func (m *mockLookupService) Bancos(ctx context.Context) ([]domain.LookupItem, error) { return nil, nil }

// =============================================================================
// Mock UploadService and MaintenanceService
// =============================================================================

type mockUploadService struct {
	ImportFunc func(ctx context.Context, params service.UploadParams) (*domain.ImportResult, error)
}

var _ service.UploadService = (*mockUploadService)(nil)

func (m *mockUploadService) Import(ctx context.Context, params service.UploadParams) (*domain.ImportResult, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, params)
	}
	return nil, errors.New("ImportFunc not implemented")
}

type mockMaintenanceService struct {
	CleanDuplicatesFunc func(ctx context.Context) (*domain.CleanupResult, error)
	BOStatisticsFunc    func(ctx context.Context) (*domain.BOStatistics, error)
}

var _ service.MaintenanceService = (*mockMaintenanceService)(nil)

func (m *mockMaintenanceService) CleanDuplicates(ctx context.Context) (*domain.CleanupResult, error) {
	if m.CleanDuplicatesFunc != nil {
		return m.CleanDuplicatesFunc(ctx)
	}
	return nil, errors.New("CleanDuplicatesFunc not implemented")
}

func (m *mockMaintenanceService) BOStatistics(ctx context.Context) (*domain.BOStatistics, error) {
	if m.BOStatisticsFunc != nil {
		return m.BOStatisticsFunc(ctx)
	}
	return nil, errors.New("BOStatisticsFunc not implemented")
}

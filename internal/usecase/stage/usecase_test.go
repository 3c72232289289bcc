package stage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	notifDomain "github.com/jhonidlcb/softwarepar/internal/domain/notification"
	projectDomain "github.com/jhonidlcb/softwarepar/internal/domain/project"
	domain "github.com/jhonidlcb/softwarepar/internal/domain/stage"
	"github.com/jhonidlcb/softwarepar/internal/domain/uow"
	userDomain "github.com/jhonidlcb/softwarepar/internal/domain/user"
	"github.com/jhonidlcb/softwarepar/internal/notify"
)

// ----- test doubles -----

type mockStageRepo struct {
	CreateFn           func(ctx context.Context, s *domain.PaymentStage) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.PaymentStage, error)
	ListByProjectFn    func(ctx context.Context, projectID uint64) ([]domain.PaymentStage, error)
	ListByProjectsFn   func(ctx context.Context, projectIDs []uint64) ([]domain.PaymentStage, error)
	SaveFn             func(ctx context.Context, s *domain.PaymentStage) error
	UpdateFieldsFn     func(ctx context.Context, id uint64, fields map[string]any) error
	TransitionStatusFn func(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error
}

func (m *mockStageRepo) Create(ctx context.Context, s *domain.PaymentStage) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *mockStageRepo) GetByID(ctx context.Context, id uint64) (*domain.PaymentStage, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}
func (m *mockStageRepo) ListByProject(ctx context.Context, projectID uint64) ([]domain.PaymentStage, error) {
	if m.ListByProjectFn != nil {
		return m.ListByProjectFn(ctx, projectID)
	}
	return nil, nil
}
func (m *mockStageRepo) ListByProjects(ctx context.Context, projectIDs []uint64) ([]domain.PaymentStage, error) {
	if m.ListByProjectsFn != nil {
		return m.ListByProjectsFn(ctx, projectIDs)
	}
	return nil, nil
}
func (m *mockStageRepo) Save(ctx context.Context, s *domain.PaymentStage) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
func (m *mockStageRepo) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	if m.UpdateFieldsFn != nil {
		return m.UpdateFieldsFn(ctx, id, fields)
	}
	return nil
}
func (m *mockStageRepo) TransitionStatus(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error {
	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, id, from, to, fields)
	}
	return nil
}

type mockProjectRepo struct {
	GetByIDFn             func(ctx context.Context, id uint64) (*projectDomain.Project, error)
	ListByClientFn        func(ctx context.Context, clientID uint64) ([]projectDomain.Project, error)
	HasTimelineFn         func(ctx context.Context, projectID uint64) (bool, error)
	CreateTimelineItemsFn func(ctx context.Context, items []projectDomain.TimelineItem) error
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id uint64) (*projectDomain.Project, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}
func (m *mockProjectRepo) ListByClient(ctx context.Context, clientID uint64) ([]projectDomain.Project, error) {
	if m.ListByClientFn != nil {
		return m.ListByClientFn(ctx, clientID)
	}
	return nil, nil
}
func (m *mockProjectRepo) HasTimeline(ctx context.Context, projectID uint64) (bool, error) {
	if m.HasTimelineFn != nil {
		return m.HasTimelineFn(ctx, projectID)
	}
	return true, nil
}
func (m *mockProjectRepo) CreateTimelineItems(ctx context.Context, items []projectDomain.TimelineItem) error {
	if m.CreateTimelineItemsFn != nil {
		return m.CreateTimelineItemsFn(ctx, items)
	}
	return nil
}

type mockUserRepo struct {
	GetByIDFn    func(ctx context.Context, id uint64) (*userDomain.User, error)
	ListByRoleFn func(ctx context.Context, role userDomain.Role) ([]userDomain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}
func (m *mockUserRepo) ListByRole(ctx context.Context, role userDomain.Role) ([]userDomain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}
	return nil, nil
}

// mockUoW runs the callback against the same mocks, no real tx.
type mockUoW struct {
	stages   domain.Repository
	projects projectDomain.Repository
}

func (m *mockUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return fn(uow.Repos{Stages: m.stages, Projects: m.projects})
}

type mockDispatcher struct {
	events []notify.Event
}

func (m *mockDispatcher) Dispatch(_ context.Context, e notify.Event) {
	m.events = append(m.events, e)
}

// ----- fixtures -----

const (
	projID   = uint64(7)
	clientID = uint64(42)
	adminID  = uint64(1)
)

func testProject() *projectDomain.Project {
	return &projectDomain.Project{
		ID:       projID,
		Name:     "Sistema de Inventario",
		ClientID: clientID,
		Price:    decimal.RequireFromString("1000.00"),
	}
}

func testClient() *userDomain.User {
	return &userDomain.User{ID: clientID, Email: "cliente@example.com", FullName: "Cliente Uno", Role: userDomain.RoleClient}
}

func newTestUsecase(stages *mockStageRepo, projects *mockProjectRepo, users *mockUserRepo, d *mockDispatcher) *Usecase {
	if users.GetByIDFn == nil {
		users.GetByIDFn = func(ctx context.Context, id uint64) (*userDomain.User, error) {
			return testClient(), nil
		}
	}
	return NewUsecase(stages, projects, users, &mockUoW{stages: stages, projects: projects}, d, zap.NewNop())
}

// ----- tests -----

func TestCreate_FreezesAmountsAndInitialStatuses(t *testing.T) {
	var created []*domain.PaymentStage
	var nextID uint64
	stages := &mockStageRepo{
		CreateFn: func(ctx context.Context, s *domain.PaymentStage) error {
			nextID++
			s.ID = nextID
			created = append(created, s)
			return nil
		},
	}
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	d := &mockDispatcher{}
	uc := newTestUsecase(stages, projects, &mockUserRepo{}, d)

	dtos, err := uc.Create(context.Background(), projID, []StageInput{
		{Name: "Anticipo", Percentage: 50, RequiredProgress: 0},
		{Name: "Entrega", Percentage: 50, RequiredProgress: 90},
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("want 2 stages, got %d", len(dtos))
	}
	if !created[0].Amount.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("amount=%s", created[0].Amount)
	}
	if created[0].Status != domain.StatusAvailable {
		t.Errorf("ungated stage status=%s", created[0].Status)
	}
	if created[1].Status != domain.StatusPending {
		t.Errorf("gated stage status=%s", created[1].Status)
	}
	// One availability email for the ungated stage only.
	if len(d.events) != 1 || d.events[0].Kind != notify.KindStageAvailable {
		t.Fatalf("events=%+v", d.events)
	}
	if d.events[0].Note != nil {
		t.Errorf("stage_available must be email-only")
	}
}

func TestCreate_SeedsTimelineOnce(t *testing.T) {
	var seeded [][]projectDomain.TimelineItem
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
		HasTimelineFn: func(ctx context.Context, projectID uint64) (bool, error) { return false, nil },
		CreateTimelineItemsFn: func(ctx context.Context, items []projectDomain.TimelineItem) error {
			seeded = append(seeded, items)
			return nil
		},
	}
	uc := newTestUsecase(&mockStageRepo{}, projects, &mockUserRepo{}, &mockDispatcher{})

	_, err := uc.Create(context.Background(), projID, []StageInput{
		{Name: "Única", Percentage: 100, RequiredProgress: 100},
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(seeded) != 1 || len(seeded[0]) != 6 {
		t.Fatalf("timeline seed: %d batches", len(seeded))
	}
	if seeded[0][0].Title != "Análisis y Planificación" {
		t.Errorf("first item=%q", seeded[0][0].Title)
	}

	// Existing timeline must not be reseeded.
	projects.HasTimelineFn = func(ctx context.Context, projectID uint64) (bool, error) { return true, nil }
	_, err = uc.Create(context.Background(), projID, []StageInput{
		{Name: "Otra", Percentage: 100, RequiredProgress: 100},
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(seeded) != 1 {
		t.Fatalf("timeline reseeded")
	}
}

func availableStage() *domain.PaymentStage {
	return &domain.PaymentStage{
		ID:               10,
		ProjectID:        projID,
		StageName:        "Anticipo",
		StagePercentage:  50,
		Amount:           decimal.RequireFromString("500.00"),
		RequiredProgress: 0,
		Status:           domain.StatusAvailable,
	}
}

func TestConfirm_RecordsProofAndNotifies(t *testing.T) {
	st := availableStage()
	var gotFrom []domain.Status
	var gotFields map[string]any
	stages := &mockStageRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.PaymentStage, error) { return st, nil },
		TransitionStatusFn: func(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error {
			gotFrom, gotFields = from, fields
			if to != domain.StatusPendingVerification {
				t.Errorf("to=%s", to)
			}
			return nil
		},
	}
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	users := &mockUserRepo{
		ListByRoleFn: func(ctx context.Context, role userDomain.Role) ([]userDomain.User, error) {
			return []userDomain.User{{ID: adminID, Email: "admin@softwarepar.lat", FullName: "Admin"}}, nil
		},
	}
	d := &mockDispatcher{}
	uc := newTestUsecase(stages, projects, users, d)

	_, err := uc.Confirm(context.Background(), clientID, false, st.ID, ConfirmInput{
		Method:           "Transferencia Bancaria",
		Upload:           &domain.FileInfo{FileName: "pago.jpg", FileSize: 2048, FileType: "image/jpeg"},
		OriginalFileName: "pago.jpg",
	})
	if err != nil {
		t.Fatalf("Confirm err: %v", err)
	}

	if len(gotFrom) != 2 {
		t.Errorf("from=%v (resubmission before review must be allowed)", gotFrom)
	}
	proof, _ := gotFields["proof_file_url"].(*string)
	if proof == nil || !strings.HasPrefix(*proof, "comprobante_10_") || !strings.HasSuffix(*proof, "_pago.jpg") {
		t.Errorf("proof_file_url=%v", gotFields["proof_file_url"])
	}
	if e := domain.LastAudit(gotFields["payment_data"].(datatypes.JSON), domain.AuditSubmittedProof); e == nil || e.By != clientID {
		t.Errorf("missing submitted_proof audit entry")
	}

	// Two events: admins (note + mail), client (mail only).
	if len(d.events) != 2 {
		t.Fatalf("events=%d", len(d.events))
	}
	adminEvt, clientEvt := d.events[0], d.events[1]
	if adminEvt.Note == nil || adminEvt.Mail == nil || adminEvt.Note.Severity != notifDomain.SeverityWarning {
		t.Errorf("admin event incomplete: %+v", adminEvt.Note)
	}
	if clientEvt.Note != nil || clientEvt.Mail == nil {
		t.Errorf("client confirmation must be mail-only")
	}
}

func TestConfirm_OtherClientsProjectForbidden(t *testing.T) {
	st := availableStage()
	stages := &mockStageRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.PaymentStage, error) { return st, nil },
		TransitionStatusFn: func(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error {
			t.Fatal("transition must not run for a foreign client")
			return nil
		},
	}
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	uc := newTestUsecase(stages, projects, &mockUserRepo{}, &mockDispatcher{})

	_, err := uc.Confirm(context.Background(), clientID+1, false, st.ID, ConfirmInput{Method: "Giros Tigo"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err=%v", err)
	}
}

func TestApprove_SetsPaymentFieldsOnce(t *testing.T) {
	st := availableStage()
	st.Status = domain.StatusPendingVerification
	var gotFields map[string]any
	stages := &mockStageRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.PaymentStage, error) { return st, nil },
		TransitionStatusFn: func(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error {
			if len(from) != 1 || from[0] != domain.StatusPendingVerification || to != domain.StatusPaid {
				t.Errorf("from=%v to=%s", from, to)
			}
			gotFields = fields
			return nil
		},
	}
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	d := &mockDispatcher{}
	uc := newTestUsecase(stages, projects, &mockUserRepo{}, d)

	_, err := uc.Approve(context.Background(), adminID, st.ID)
	if err != nil {
		t.Fatalf("Approve err: %v", err)
	}
	if gotFields["approved_by"] != adminID {
		t.Errorf("approved_by=%v", gotFields["approved_by"])
	}
	if _, ok := gotFields["paid_at"].(time.Time); !ok {
		t.Errorf("paid_at missing")
	}
	// In-app note only, no email.
	if len(d.events) != 1 || d.events[0].Note == nil || d.events[0].Mail != nil {
		t.Fatalf("events=%+v", d.events)
	}
	if d.events[0].Note.Severity != notifDomain.SeveritySuccess {
		t.Errorf("severity=%s", d.events[0].Note.Severity)
	}
}

func TestApprove_RacingLoserGetsInvalidTransition(t *testing.T) {
	st := availableStage()
	st.Status = domain.StatusPendingVerification
	stages := &mockStageRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.PaymentStage, error) { return st, nil },
		TransitionStatusFn: func(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error {
			return domain.ErrInvalidTransition
		},
	}
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	d := &mockDispatcher{}
	uc := newTestUsecase(stages, projects, &mockUserRepo{}, d)

	_, err := uc.Approve(context.Background(), adminID, st.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err=%v", err)
	}
	if len(d.events) != 0 {
		t.Fatalf("loser must not notify")
	}
}

func TestReject_RequiresReason(t *testing.T) {
	stages := &mockStageRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.PaymentStage, error) {
			t.Fatal("repo must not be touched without a reason")
			return nil, nil
		},
	}
	uc := newTestUsecase(stages, &mockProjectRepo{}, &mockUserRepo{}, &mockDispatcher{})

	_, err := uc.Reject(context.Background(), adminID, 10, "   ")
	if !errors.Is(err, domain.ErrReasonRequired) {
		t.Fatalf("err=%v", err)
	}
}

func TestReject_ClearsProofAndKeepsHistory(t *testing.T) {
	st := availableStage()
	st.Status = domain.StatusPendingVerification
	method := "Transferencia Bancaria"
	st.PaymentMethod = &method
	st.PaymentData = domain.AppendAudit(nil, domain.AuditEntry{
		Kind: domain.AuditSubmittedProof, By: clientID, At: time.Now().UTC(), Method: method,
	})

	var gotFields map[string]any
	stages := &mockStageRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.PaymentStage, error) { return st, nil },
		TransitionStatusFn: func(ctx context.Context, id uint64, from []domain.Status, to domain.Status, fields map[string]any) error {
			if to != domain.StatusAvailable {
				t.Errorf("to=%s", to)
			}
			gotFields = fields
			return nil
		},
	}
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	d := &mockDispatcher{}
	uc := newTestUsecase(stages, projects, &mockUserRepo{}, d)

	_, err := uc.Reject(context.Background(), adminID, st.ID, "Comprobante ilegible")
	if err != nil {
		t.Fatalf("Reject err: %v", err)
	}
	if gotFields["payment_method"] != nil || gotFields["proof_file_url"] != nil {
		t.Errorf("proof fields not cleared: %+v", gotFields)
	}
	raw := gotFields["payment_data"].(datatypes.JSON)
	if e := domain.LastAudit(raw, domain.AuditRejected); e == nil || e.Reason != "Comprobante ilegible" {
		t.Errorf("rejected audit entry missing")
	}
	if e := domain.LastAudit(raw, domain.AuditSubmittedProof); e == nil {
		t.Errorf("submission history must survive rejection")
	}
	if len(d.events) != 1 || d.events[0].Note == nil || d.events[0].Note.Severity != notifDomain.SeverityError {
		t.Fatalf("events=%+v", d.events)
	}
	if !strings.Contains(d.events[0].Note.Message, "Comprobante ilegible") {
		t.Errorf("reason missing from message: %q", d.events[0].Note.Message)
	}
}

func TestList_ClientCannotSeeForeignProject(t *testing.T) {
	projects := &mockProjectRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*projectDomain.Project, error) {
			return testProject(), nil
		},
	}
	uc := newTestUsecase(&mockStageRepo{}, projects, &mockUserRepo{}, &mockDispatcher{})

	_, err := uc.List(context.Background(), clientID+1, false, projID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err=%v", err)
	}
	if _, err := uc.List(context.Background(), adminID, true, projID); err != nil {
		t.Fatalf("admin list err: %v", err)
	}
}

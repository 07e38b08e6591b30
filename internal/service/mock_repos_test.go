package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/Mugasir/edu-trust-ledger/internal/model"
	"github.com/Mugasir/edu-trust-ledger/internal/repository"
)

// errMockStorage 模拟存储故障
var errMockStorage = errors.New("mock: 存储不可用")

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	accounts map[string]*model.Account // key: account_id 与 email: 前缀索引
	nextID   int
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if account.AccountID == "" {
		m.nextID++
		account.AccountID = fmt.Sprintf("acc-%03d", m.nextID)
	}
	m.accounts[account.AccountID] = account
	m.accounts["email:"+account.Email] = account
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if a, ok := m.accounts["email:"+email]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) Update(_ context.Context, account *model.Account) error {
	m.accounts[account.AccountID] = account
	m.accounts["email:"+account.Email] = account
	return nil
}

// ── Mock InstitutionRepository ──

type mockInstitutionRepo struct {
	institutions map[string]*model.Institution
}

func newMockInstitutionRepo() *mockInstitutionRepo {
	return &mockInstitutionRepo{institutions: make(map[string]*model.Institution)}
}

func (m *mockInstitutionRepo) Create(_ context.Context, inst *model.Institution) error {
	if inst.InstitutionID == "" {
		inst.InstitutionID = "inst-" + inst.MoESRegNumber
	}
	m.institutions[inst.InstitutionID] = inst
	return nil
}

func (m *mockInstitutionRepo) GetByID(_ context.Context, id string) (*model.Institution, error) {
	if i, ok := m.institutions[id]; ok {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstitutionRepo) GetByAccountID(_ context.Context, accountID string) (*model.Institution, error) {
	for _, i := range m.institutions {
		if i.AccountID == accountID {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstitutionRepo) GetByRegNumber(_ context.Context, regNumber string) (*model.Institution, error) {
	for _, i := range m.institutions {
		if i.MoESRegNumber == regNumber {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstitutionRepo) List(_ context.Context, offset, limit int) ([]model.Institution, int64, error) {
	var all []model.Institution
	for _, i := range m.institutions {
		all = append(all, *i)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].InstitutionID < all[b].InstitutionID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockInstitutionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.institutions)), nil
}

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	organizations map[string]*model.Organization
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{organizations: make(map[string]*model.Organization)}
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = "org-" + org.OrgIDCode
	}
	m.organizations[org.OrganizationID] = org
	return nil
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.organizations[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) GetByAccountID(_ context.Context, accountID string) (*model.Organization, error) {
	for _, o := range m.organizations {
		if o.AccountID == accountID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) GetByOrgIDCode(_ context.Context, code string) (*model.Organization, error) {
	for _, o := range m.organizations {
		if o.OrgIDCode == code {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) List(_ context.Context, offset, limit int) ([]model.Organization, int64, error) {
	var all []model.Organization
	for _, o := range m.organizations {
		all = append(all, *o)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].OrganizationID < all[b].OrganizationID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockOrganizationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.organizations)), nil
}

// ── Mock LearnerRepository ──

type mockLearnerRepo struct {
	learners map[string]*model.Learner
	events   *mockAcademicEventRepo // 供 Preload 行为模拟
	seq      int64
	seqErr   error // 非 nil 时 NextEdutrustSeq 返回该错误
	listErr  error // 非 nil 时 ListWithEvents 返回该错误
}

func newMockLearnerRepo(events *mockAcademicEventRepo) *mockLearnerRepo {
	return &mockLearnerRepo{learners: make(map[string]*model.Learner), events: events}
}

func (m *mockLearnerRepo) NextEdutrustSeq(_ context.Context) (int64, error) {
	if m.seqErr != nil {
		return 0, m.seqErr
	}
	m.seq++
	return m.seq, nil
}

func (m *mockLearnerRepo) Create(_ context.Context, learner *model.Learner) error {
	if learner.LearnerID == "" {
		learner.LearnerID = "learner-" + learner.EdutrustID
	}
	m.learners[learner.LearnerID] = learner
	return nil
}

func (m *mockLearnerRepo) GetByID(_ context.Context, id string) (*model.Learner, error) {
	if l, ok := m.learners[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLearnerRepo) GetByEdutrustID(_ context.Context, edutrustID string) (*model.Learner, error) {
	for _, l := range m.learners {
		if l.EdutrustID == edutrustID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLearnerRepo) GetWithEvents(ctx context.Context, edutrustID string) (*model.Learner, error) {
	l, err := m.GetByEdutrustID(ctx, edutrustID)
	if err != nil {
		return nil, err
	}
	cp := *l
	cp.Events = m.events.eventsOf(l.LearnerID)
	return &cp, nil
}

func (m *mockLearnerRepo) Update(_ context.Context, learner *model.Learner) error {
	m.learners[learner.LearnerID] = learner
	return nil
}

func (m *mockLearnerRepo) ListByInstitution(_ context.Context, institutionID, query string, offset, limit int) ([]model.Learner, int64, error) {
	var all []model.Learner
	for _, l := range m.learners {
		if l.InstitutionID != institutionID {
			continue
		}
		if query != "" && !strings.Contains(l.EdutrustID, query) &&
			!strings.Contains(l.FirstName, query) && !strings.Contains(l.LastName, query) {
			continue
		}
		all = append(all, *l)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].LearnerID < all[b].LearnerID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockLearnerRepo) List(_ context.Context, offset, limit int) ([]model.Learner, int64, error) {
	var all []model.Learner
	for _, l := range m.learners {
		all = append(all, *l)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].LearnerID < all[b].LearnerID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockLearnerRepo) ListWithEvents(_ context.Context, offset, limit int) ([]model.Learner, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var all []model.Learner
	for _, l := range m.learners {
		cp := *l
		cp.Events = m.events.eventsOf(l.LearnerID)
		all = append(all, cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].LearnerID < all[b].LearnerID })
	return paginate(all, offset, limit), nil
}

func (m *mockLearnerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.learners)), nil
}

func (m *mockLearnerRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, l := range m.learners {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

// ── Mock AcademicEventRepository ──

type mockAcademicEventRepo struct {
	events []model.AcademicEvent
	nextID int
}

func newMockAcademicEventRepo() *mockAcademicEventRepo {
	return &mockAcademicEventRepo{}
}

func (m *mockAcademicEventRepo) Create(_ context.Context, event *model.AcademicEvent) error {
	if event.EventID == "" {
		m.nextID++
		event.EventID = fmt.Sprintf("evt-%03d", m.nextID)
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAcademicEventRepo) ListByLearner(_ context.Context, learnerID string) ([]model.AcademicEvent, error) {
	return m.eventsOf(learnerID), nil
}

func (m *mockAcademicEventRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

func (m *mockAcademicEventRepo) eventsOf(learnerID string) []model.AcademicEvent {
	var result []model.AcademicEvent
	for _, e := range m.events {
		if e.LearnerID == learnerID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].EventDate.Before(result[b].EventDate)
	})
	return result
}

// ── Mock SearchLogRepository ──

type mockSearchLogRepo struct {
	logs []model.SearchLog
}

func newMockSearchLogRepo() *mockSearchLogRepo {
	return &mockSearchLogRepo{}
}

func (m *mockSearchLogRepo) Create(_ context.Context, log *model.SearchLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockSearchLogRepo) ListByOrganization(_ context.Context, organizationID string, limit int) ([]model.SearchLog, error) {
	var result []model.SearchLog
	for i := len(m.logs) - 1; i >= 0 && len(result) < limit; i-- {
		if m.logs[i].OrganizationID == organizationID {
			result = append(result, m.logs[i])
		}
	}
	return result, nil
}

// ── 通用辅助 ──

// testMocks 聚合全部 mock repo，便于测试内直接操纵底层数据
type testMocks struct {
	account       *mockAccountRepo
	institution   *mockInstitutionRepo
	organization  *mockOrganizationRepo
	learner       *mockLearnerRepo
	academicEvent *mockAcademicEventRepo
	searchLog     *mockSearchLogRepo
}

func newTestRepo() (*repository.Repository, *testMocks) {
	events := newMockAcademicEventRepo()
	mocks := &testMocks{
		account:       newMockAccountRepo(),
		institution:   newMockInstitutionRepo(),
		organization:  newMockOrganizationRepo(),
		learner:       newMockLearnerRepo(events),
		academicEvent: events,
		searchLog:     newMockSearchLogRepo(),
	}
	repo := &repository.Repository{
		Account:       mocks.account,
		Institution:   mocks.institution,
		Organization:  mocks.organization,
		Learner:       mocks.learner,
		AcademicEvent: mocks.academicEvent,
		SearchLog:     mocks.searchLog,
	}
	return repo, mocks
}

// paginate 简单分页
func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

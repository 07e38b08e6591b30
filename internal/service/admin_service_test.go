package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Mugasir/edu-trust-ledger/internal/dto"
	"github.com/Mugasir/edu-trust-ledger/internal/model"
)

func setupTestAdminService() (AdminService, *testMocks) {
	repo, mocks := newTestRepo()
	return NewAdminService(repo, zap.NewNop()), mocks
}

func TestGetPlatformStats(t *testing.T) {
	svc, mocks := setupTestAdminService()

	mocks.institution.institutions["inst-1"] = &model.Institution{InstitutionID: "inst-1"}
	mocks.organization.organizations["org-1"] = &model.Organization{OrganizationID: "org-1"}

	active := createTestLearner(mocks, "EDU-UG-2026-00001", "inst-1")
	seedTimelineEvents(mocks, active.LearnerID)
	for i, id := range []string{"EDU-UG-2026-00002", "EDU-UG-2026-00003", "EDU-UG-2026-00004"} {
		l := createTestLearner(mocks, id, "inst-1")
		if i < 1 {
			l.Status = model.LearnerStatusCompleted
		}
	}

	stats, err := svc.GetPlatformStats(context.Background())
	if err != nil {
		t.Fatalf("GetPlatformStats 应成功: %v", err)
	}

	if stats.TotalInstitutions != 1 || stats.TotalOrganizations != 1 {
		t.Errorf("主体统计不符: %+v", stats)
	}
	if stats.TotalLearners != 4 {
		t.Errorf("期望 4 名学习者，实际=%d", stats.TotalLearners)
	}
	if stats.ActiveLearners != 3 || stats.CompletedLearners != 1 {
		t.Errorf("状态统计不符: active=%d completed=%d", stats.ActiveLearners, stats.CompletedLearners)
	}
	if stats.TotalEvents != 3 {
		t.Errorf("期望 3 条事件，实际=%d", stats.TotalEvents)
	}
	if stats.CompletionRate != 25 {
		t.Errorf("期望结业率 25，实际=%d", stats.CompletionRate)
	}
}

func TestAdminListLearners_Paginated(t *testing.T) {
	svc, mocks := setupTestAdminService()
	for _, id := range []string{"EDU-UG-2026-00001", "EDU-UG-2026-00002", "EDU-UG-2026-00003"} {
		createTestLearner(mocks, id, "inst-1")
	}

	page1, total, err := svc.ListLearners(context.Background(), &dto.AdminListRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("ListLearners 应成功: %v", err)
	}
	if total != 3 {
		t.Errorf("期望 total=3，实际=%d", total)
	}
	if len(page1) != 2 {
		t.Errorf("第一页应有 2 条，实际=%d", len(page1))
	}

	page2, _, err := svc.ListLearners(context.Background(), &dto.AdminListRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("ListLearners 应成功: %v", err)
	}
	if len(page2) != 1 {
		t.Errorf("第二页应有 1 条，实际=%d", len(page2))
	}
}

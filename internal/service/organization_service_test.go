package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Mugasir/edu-trust-ledger/config"
	"github.com/Mugasir/edu-trust-ledger/internal/dto"
	"github.com/Mugasir/edu-trust-ledger/internal/model"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
)

// ── 测试辅助 ──

func setupTestOrganizationService() (OrganizationService, *testMocks) {
	cfg := &config.Config{Org: config.OrgConfig{MonthlySearchLimit: 1000}}
	repo, mocks := newTestRepo()

	mocks.organization.organizations["org-1"] = &model.Organization{
		OrganizationID: "org-1",
		Name:           "Stanbic Bank Uganda",
		OrgIDCode:      "ORG-STB-001",
	}
	learner := &model.Learner{
		LearnerID:     "learner-1",
		EdutrustID:    "EDU-UG-2026-00001",
		FirstName:     "Amina",
		LastName:      "Okello",
		Level:         "P5",
		Status:        model.LearnerStatusActive,
		InstitutionID: "inst-1",
	}
	mocks.learner.learners[learner.LearnerID] = learner
	seedTimelineEvents(mocks, learner.LearnerID)

	// rdb 传 nil：单测不依赖 Redis，配额按降级路径放行
	return NewOrganizationService(cfg, repo, nil, zap.NewNop()), mocks
}

// ── 检索测试 ──

func TestOrgSearch_Success(t *testing.T) {
	svc, mocks := setupTestOrganizationService()

	resp, err := svc.SearchLearner(context.Background(), "org-1",
		&dto.OrgSearchRequest{EdutrustID: "EDU-UG-2026-00001"})
	if err != nil {
		t.Fatalf("SearchLearner 应成功: %v", err)
	}

	if resp.Learner.EdutrustID != "EDU-UG-2026-00001" {
		t.Errorf("期望命中 EDU-UG-2026-00001，实际=%s", resp.Learner.EdutrustID)
	}
	// 机构视图脱敏 document 事件
	foundDoc := false
	for _, e := range resp.Events {
		if e.Kind == verification.KindDocument {
			foundDoc = true
			if e.Description != verification.RestrictedNotice {
				t.Errorf("document 事件应脱敏，实际=%q", e.Description)
			}
		}
	}
	if !foundDoc {
		t.Fatal("测试数据应包含 document 事件")
	}

	// 检索留痕
	if len(mocks.searchLog.logs) != 1 {
		t.Fatalf("期望 1 条检索记录，实际=%d", len(mocks.searchLog.logs))
	}
	if mocks.searchLog.logs[0].LearnerName != "Amina Okello" {
		t.Errorf("留痕姓名不符: %s", mocks.searchLog.logs[0].LearnerName)
	}
}

func TestOrgSearch_NotFoundStillLogged(t *testing.T) {
	svc, mocks := setupTestOrganizationService()

	_, err := svc.SearchLearner(context.Background(), "org-1",
		&dto.OrgSearchRequest{EdutrustID: "EDU-UG-2026-99999"})
	if !errors.Is(err, ErrLearnerNotFound) {
		t.Fatalf("期望 ErrLearnerNotFound，实际: %v", err)
	}

	// 未命中同样留痕，姓名为空
	if len(mocks.searchLog.logs) != 1 {
		t.Fatalf("未命中也应留痕，实际=%d 条", len(mocks.searchLog.logs))
	}
	if mocks.searchLog.logs[0].LearnerName != "" {
		t.Error("未命中留痕不应携带姓名")
	}
}

func TestOrgSearch_QuotaDegradesWithoutRedis(t *testing.T) {
	svc, _ := setupTestOrganizationService()

	// Redis 缺席时配额未知，响应不应携带 Quota，也不应拒绝检索
	resp, err := svc.SearchLearner(context.Background(), "org-1",
		&dto.OrgSearchRequest{EdutrustID: "EDU-UG-2026-00001"})
	if err != nil {
		t.Fatalf("Redis 缺席时检索应放行: %v", err)
	}
	if resp.Quota != nil {
		t.Error("配额未知时响应不应携带 Quota")
	}
}

// ── 配额测试 ──

func TestGetQuota_DegradesWithoutRedis(t *testing.T) {
	svc, _ := setupTestOrganizationService()

	quota, err := svc.GetQuota(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("GetQuota 应成功: %v", err)
	}
	if quota.Limit != 1000 {
		t.Errorf("期望 Limit=1000，实际=%d", quota.Limit)
	}
	if quota.Used != 0 {
		t.Errorf("Redis 缺席时 Used 应为 0，实际=%d", quota.Used)
	}
}

// ── 检索记录测试 ──

func TestRecentSearches_MostRecentFirst(t *testing.T) {
	svc, _ := setupTestOrganizationService()

	for _, id := range []string{"EDU-UG-2026-00001", "EDU-UG-2026-99998", "EDU-UG-2026-99999"} {
		_, _ = svc.SearchLearner(context.Background(), "org-1", &dto.OrgSearchRequest{EdutrustID: id})
	}

	logs, err := svc.RecentSearches(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("RecentSearches 应成功: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("期望 3 条记录，实际=%d", len(logs))
	}
	if logs[0].EdutrustID != "EDU-UG-2026-99999" {
		t.Errorf("最近一次检索应排在最前，实际=%s", logs[0].EdutrustID)
	}
}

func TestRecentSearches_ScopedToOrganization(t *testing.T) {
	svc, mocks := setupTestOrganizationService()
	mocks.searchLog.logs = append(mocks.searchLog.logs,
		model.SearchLog{OrganizationID: "org-other", EdutrustID: "EDU-UG-2026-00001"},
	)

	logs, err := svc.RecentSearches(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("RecentSearches 应成功: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("不应看到其他机构的检索记录，实际=%d 条", len(logs))
	}
}

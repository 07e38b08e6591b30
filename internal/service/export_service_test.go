package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Mugasir/edu-trust-ledger/internal/model"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
)

func setupTestExportService() (ExportService, *testMocks) {
	repo, mocks := newTestRepo()
	mocks.institution.institutions["inst-1"] = &model.Institution{
		InstitutionID: "inst-1",
		Name:          "Kampala Primary School",
		MoESRegNumber: "MoES-PS-1001",
	}
	return NewExportService(repo, zap.NewNop()), mocks
}

// ── 花名册导出测试 ──

func TestExportRoster_Success(t *testing.T) {
	svc, mocks := setupTestExportService()
	createTestLearner(mocks, "EDU-UG-2026-00001", "inst-1")
	createTestLearner(mocks, "EDU-UG-2026-00002", "inst-1")

	buf, filename, err := svc.ExportRoster(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("ExportRoster 应成功: %v", err)
	}

	// xlsx 本质是 zip，魔数 PK
	if !strings.HasPrefix(buf.String(), "PK") {
		t.Error("输出应为 xlsx（zip 容器）")
	}
	if filename != "roster_MoES-PS-1001.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
}

func TestExportRoster_NoLearners(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportRoster(context.Background(), "inst-1")
	if !errors.Is(err, ErrExportNoLearners) {
		t.Errorf("期望 ErrExportNoLearners，实际: %v", err)
	}
}

// ── 时间线导出测试 ──

func TestExportTimelineICS_Success(t *testing.T) {
	svc, mocks := setupTestExportService()
	learner := createTestLearner(mocks, "EDU-UG-2026-00001", "inst-1")
	seedTimelineEvents(mocks, learner.LearnerID)

	buf, filename, err := svc.ExportTimelineICS(context.Background(), "inst-1", learner.LearnerID, model.RoleInstitution)
	if err != nil {
		t.Fatalf("ExportTimelineICS 应成功: %v", err)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("输出应为 iCalendar")
	}
	if !strings.Contains(content, "UID:e1@edutrust") {
		t.Error("VEVENT 应复用事件主键作为 UID")
	}
	if !strings.Contains(content, "Term 1 examination results") {
		t.Error("学校视图应包含完整事件描述")
	}
	if filename != "timeline_EDU-UG-2026-00001.ics" {
		t.Errorf("文件名不符: %s", filename)
	}
}

func TestExportTimelineICS_RedactsForNonInstitution(t *testing.T) {
	svc, mocks := setupTestExportService()
	learner := createTestLearner(mocks, "EDU-UG-2026-00001", "inst-1")
	seedTimelineEvents(mocks, learner.LearnerID)

	buf, _, err := svc.ExportTimelineICS(context.Background(), "inst-1", learner.LearnerID, model.RoleOrganization)
	if err != nil {
		t.Fatalf("ExportTimelineICS 应成功: %v", err)
	}

	content := buf.String()
	if strings.Contains(content, "Birth certificate") {
		t.Error("机构视图不应泄露 document 事件原始描述")
	}
	if !strings.Contains(content, verification.RestrictedNotice) {
		t.Error("机构视图的 document 事件应替换为占位描述")
	}
}

func TestExportTimelineICS_NotOwnLearner(t *testing.T) {
	svc, mocks := setupTestExportService()
	learner := createTestLearner(mocks, "EDU-UG-2026-00001", "inst-2")

	_, _, err := svc.ExportTimelineICS(context.Background(), "inst-1", learner.LearnerID, model.RoleInstitution)
	if !errors.Is(err, ErrNotOwnLearner) {
		t.Errorf("期望 ErrNotOwnLearner，实际: %v", err)
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Mugasir/edu-trust-ledger/config"
	"github.com/Mugasir/edu-trust-ledger/internal/model"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
)

func TestGenerateReport_Success(t *testing.T) {
	_, reportSvc, _, learner := setupVerifyEnv(t)

	pdf, artifact, err := reportSvc.GenerateReport(context.Background(), learner.EdutrustID, model.RoleInstitution, learner.InstitutionID)
	if err != nil {
		t.Fatalf("GenerateReport 应成功: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("输出应为 PDF")
	}
	if !verification.IsWellFormedFingerprint(artifact.Fingerprint) {
		t.Errorf("工件指纹格式不合法: %s", artifact.Fingerprint)
	}
	if artifact.VerificationURL != "https://edutrust.ug/verify/"+artifact.Fingerprint {
		t.Errorf("验证链接拼接错误: %s", artifact.VerificationURL)
	}
}

func TestGenerateReport_AudienceDoesNotChangeFingerprint(t *testing.T) {
	_, reportSvc, _, learner := setupVerifyEnv(t)

	_, instArtifact, err := reportSvc.GenerateReport(context.Background(), learner.EdutrustID, model.RoleInstitution, learner.InstitutionID)
	if err != nil {
		t.Fatalf("GenerateReport 应成功: %v", err)
	}
	_, orgArtifact, err := reportSvc.GenerateReport(context.Background(), learner.EdutrustID, model.RoleOrganization, "org-1")
	if err != nil {
		t.Fatalf("GenerateReport 应成功: %v", err)
	}
	_, foreignArtifact, err := reportSvc.GenerateReport(context.Background(), learner.EdutrustID, model.RoleInstitution, "inst-other")
	if err != nil {
		t.Fatalf("GenerateReport 应成功: %v", err)
	}

	if instArtifact.Fingerprint != orgArtifact.Fingerprint || instArtifact.Fingerprint != foreignArtifact.Fingerprint {
		t.Error("观看场景只影响排版，不应影响指纹")
	}
}

func TestReportAudience_FullViewOnlyForOwnerOrAdmin(t *testing.T) {
	learner := &model.Learner{LearnerID: "learner-1", InstitutionID: "inst-1"}

	tests := []struct {
		name    string
		role    string
		actorID string
		want    verification.Audience
	}{
		{"归属学校", model.RoleInstitution, "inst-1", verification.AudienceInstitution},
		{"平台管理员", model.RoleAdmin, "", verification.AudienceInstitution},
		// 他校账号拿不到校内视图，document 原始描述不得跨校泄露
		{"他校账号", model.RoleInstitution, "inst-2", verification.AudienceOrganization},
		{"主体为空的学校账号", model.RoleInstitution, "", verification.AudienceOrganization},
		{"查询机构", model.RoleOrganization, "org-1", verification.AudienceOrganization},
		{"未知角色", "guest", "", verification.AudienceOrganization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reportAudience(learner, tt.role, tt.actorID); got != tt.want {
				t.Errorf("reportAudience(%s, %s)=%s，期望 %s", tt.role, tt.actorID, got, tt.want)
			}
		})
	}
}

func TestGenerateReport_LearnerNotFound(t *testing.T) {
	_, reportSvc, _, _ := setupVerifyEnv(t)

	_, _, err := reportSvc.GenerateReport(context.Background(), "EDU-UG-2026-99999", model.RoleInstitution, "inst-1")
	if !errors.Is(err, ErrLearnerNotFound) {
		t.Errorf("期望 ErrLearnerNotFound，实际: %v", err)
	}
}

func TestGenerateReport_EmptyTimeline(t *testing.T) {
	repo, mocks := newTestRepo()
	mocks.learner.learners["learner-empty"] = &model.Learner{
		LearnerID:  "learner-empty",
		EdutrustID: "EDU-UG-2026-00002",
		FirstName:  "Brian",
		LastName:   "Mugisha",
	}
	cfg := &config.Config{Report: config.ReportConfig{VerifyBaseURL: "https://edutrust.ug"}}
	reportSvc := NewReportService(cfg, repo, zap.NewNop())

	_, _, err := reportSvc.GenerateReport(context.Background(), "EDU-UG-2026-00002", model.RoleInstitution, "inst-1")
	if !errors.Is(err, verification.ErrEmptyTimeline) {
		t.Errorf("空时间线不应可签发报告，实际: %v", err)
	}
}

func TestGenerateQRCode_MatchesMeta(t *testing.T) {
	_, reportSvc, _, learner := setupVerifyEnv(t)

	png, artifact, err := reportSvc.GenerateQRCode(context.Background(), learner.EdutrustID)
	if err != nil {
		t.Fatalf("GenerateQRCode 应成功: %v", err)
	}
	if !bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("输出应为 PNG")
	}

	meta, err := reportSvc.GetReportMeta(context.Background(), learner.EdutrustID)
	if err != nil {
		t.Fatalf("GetReportMeta 应成功: %v", err)
	}
	if artifact.Fingerprint != meta.Fingerprint {
		t.Error("二维码与元数据的指纹应一致")
	}
}

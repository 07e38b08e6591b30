package service

import (
	"github.com/Mugasir/edu-trust-ledger/internal/dto"
	"github.com/Mugasir/edu-trust-ledger/internal/model"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
)

// toVerificationEvents 将存储行转换为核心时间线事件
// 转换不排序：规范排序统一由 verification.Canonicalize 负责
func toVerificationEvents(events []model.AcademicEvent) []verification.Event {
	out := make([]verification.Event, 0, len(events))
	for i := range events {
		out = append(out, verification.Event{
			ID:          events[i].EventID,
			Date:        events[i].EventDate,
			Kind:        events[i].Kind,
			Institution: events[i].Institution,
			Description: events[i].Description,
			Result:      events[i].Result,
		})
	}
	return out
}

// audienceForRole 将认证角色映射为观看场景
// 未知角色一律按公开场景处理（最严脱敏）
func audienceForRole(role string) verification.Audience {
	switch role {
	case model.RoleInstitution, model.RoleAdmin:
		return verification.AudienceInstitution
	case model.RoleOrganization:
		return verification.AudienceOrganization
	default:
		return verification.AudiencePublic
	}
}

// toTimelineEventResponses 将（已脱敏的）事件视图转换为响应 DTO
func toTimelineEventResponses(events []verification.Event) []dto.TimelineEventResponse {
	out := make([]dto.TimelineEventResponse, 0, len(events))
	for i := range events {
		resp := dto.TimelineEventResponse{
			ID:          events[i].ID,
			Date:        events[i].Date.Format("2006-01-02"),
			Kind:        events[i].Kind,
			Institution: events[i].Institution,
			Description: events[i].Description,
		}
		if events[i].Result != nil {
			resp.Result = *events[i].Result
		}
		out = append(out, resp)
	}
	return out
}

// toLearnerResponse 将学习者行转换为响应 DTO
func toLearnerResponse(l *model.Learner) dto.LearnerResponse {
	resp := dto.LearnerResponse{
		ID:              l.LearnerID,
		EdutrustID:      l.EdutrustID,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Gender:          l.Gender,
		Level:           l.Level,
		Status:          l.Status,
		GuardianName:    l.GuardianName,
		GuardianContact: l.GuardianContact,
		InstitutionID:   l.InstitutionID,
		CreatedAt:       l.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if l.DateOfBirth != nil {
		resp.DateOfBirth = l.DateOfBirth.Format("2006-01-02")
	}
	if l.Institution != nil {
		resp.InstitutionName = l.Institution.Name
	}
	return resp
}

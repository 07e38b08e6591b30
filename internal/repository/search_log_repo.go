package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mugasir/edu-trust-ledger/internal/model"
)

// SearchLogRepository 检索日志数据访问接口
type SearchLogRepository interface {
	Create(ctx context.Context, log *model.SearchLog) error
	ListByOrganization(ctx context.Context, organizationID string, limit int) ([]model.SearchLog, error)
}

// searchLogRepo SearchLogRepository 的 GORM 实现
type searchLogRepo struct {
	db *gorm.DB
}

// NewSearchLogRepo 创建 SearchLogRepository 实例
func NewSearchLogRepo(db *gorm.DB) SearchLogRepository {
	return &searchLogRepo{db: db}
}

func (r *searchLogRepo) Create(ctx context.Context, log *model.SearchLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *searchLogRepo) ListByOrganization(ctx context.Context, organizationID string, limit int) ([]model.SearchLog, error) {
	var logs []model.SearchLog
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

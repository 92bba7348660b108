package api

import (
	"log"
	"time"

	"github.com/NovaGest/crm_service/config"
	"github.com/NovaGest/crm_service/infra/queue"
	"github.com/NovaGest/crm_service/internal/api/rest/handlers"
	"github.com/NovaGest/crm_service/internal/domain"
	"github.com/NovaGest/crm_service/internal/helper"
	"github.com/NovaGest/crm_service/internal/repository"
	"github.com/NovaGest/crm_service/internal/services"
	"github.com/NovaGest/crm_service/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260311

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.Cliente{},
		&domain.Consentimento{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	seedRoles(db)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	window := time.Duration(cfg.RateWindowSeconds) * time.Second
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		rl, err := ratelimit.NewRedisLimiter(cfg.RedisURL, cfg.RateLimit, window)
		if err != nil {
			log.Fatalf("redis limiter init error: %v", err)
		}
		limiter = rl
	} else {
		// single-instance deployments only; state dies with the process
		log.Println("REDIS_URL not set - using in-process rate limiter")
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit, window)
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	consentRepo := repository.NewConsentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ---------- Services ----------
	auditSink := services.NewAuditSink(auditRepo, kafkaProducer)
	userSvc := services.NewUserService(userRepo, roleRepo, authHelper)
	clienteSvc := services.NewClienteService(clienteRepo, consentRepo, auditSink)
	consentSvc := services.NewConsentService(
		consentRepo,
		clienteRepo,
		auditSink,
		cfg.BaseURL,
		cfg.ConsentTextoVersao,
	)

	// ---------- Handlers ----------
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app, limiter)
	handlers.NewConsentHandler(consentSvc, authHelper).SetupRoutes(app, limiter, cfg.AdminSecret)
	handlers.NewClienteHandler(clienteSvc, authHelper).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

func seedRoles(db *gorm.DB) {
	codes := []string{domain.RoleTenant, domain.RoleGestor, domain.RoleParceiro}

	for _, code := range codes {
		var r domain.Role
		err := db.Where("code = ?", code).First(&r).Error
		if err == gorm.ErrRecordNotFound {
			_ = db.Create(&domain.Role{
				Code: code,
				Name: code,
			}).Error
		}
	}
}

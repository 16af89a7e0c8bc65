package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/apex-am/internal/application/auth"
	"github.com/jhoicas/apex-am/internal/application/usecase"
	"github.com/jhoicas/apex-am/internal/domain/repository"
	infrapdf "github.com/jhoicas/apex-am/internal/infrastructure/pdf"
	"github.com/jhoicas/apex-am/internal/infrastructure/memory"
	"github.com/jhoicas/apex-am/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/apex-am/internal/interfaces/http"
	"github.com/jhoicas/apex-am/internal/seed"
	"github.com/jhoicas/apex-am/pkg/config"
	"github.com/jhoicas/apex-am/pkg/jwt"
	"github.com/jhoicas/apex-am/pkg/logger"
)

// repos puertos de persistencia según APP_STORAGE.
type repos struct {
	users       repository.UserRepository
	accountants repository.AccountantRepository
	businesses  repository.BusinessRepository
	tx          usecase.TxRunner
	close       func()
}

// @title                       Apex AM API
// @version                     1.0
// @description                 Gestión de contables y cartera de negocios.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:       cfg.App.Env,
		Level:     "info",
		Component: "api",
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r, err := openRepos(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer r.close()

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar JWT")
	}
	authUC := auth.NewAuthUseCase(r.users, tokens)
	businessUC := usecase.NewBusinessUseCase(r.businesses, r.accountants)
	// PDF: reporte de cartera de negocios
	reportUC := usecase.NewReportUseCase(businessUC, infrapdf.NewMarotoPortfolioGenerator())

	app := httpRouter.NewServer(httpRouter.ServerConfig{
		AppName:            cfg.App.Name,
		CORSOrigins:        cfg.CORS.Origins,
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
		RateLimitBurst:     cfg.RateLimit.Burst,
		SwaggerFile:        "./docs/swagger.json",
		Logger:             log.Zerolog(),
	}, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(r.users, r.tx),
		AccountantUC: usecase.NewAccountantUseCase(r.accountants),
		BusinessUC:   businessUC,
		ReportUC:     reportUC,
		ServiceName:  cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.App.Storage == "memory" {
		// Modo demo: datos de ejemplo en memoria, se pierden al reiniciar.
		s := memory.NewStore()
		r := &repos{
			users:       memory.NewUserRepository(s),
			accountants: memory.NewAccountantRepository(s),
			businesses:  memory.NewBusinessRepository(s),
			tx:          memory.NewTxRunner(s),
			close:       func() {},
		}
		if _, err := seed.Load(ctx, seed.Repos{Users: r.users, Accountants: r.accountants, Businesses: r.businesses}, log.Zerolog()); err != nil {
			return nil, err
		}
		return r, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &repos{
		users:       postgres.NewUserRepository(pool),
		accountants: postgres.NewAccountantRepository(pool),
		businesses:  postgres.NewBusinessRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		close:       pool.Close,
	}, nil
}

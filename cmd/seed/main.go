// seed aplica el esquema embebido y carga los datos de demostración en PostgreSQL:
// admin@example.com (root_admin), super@example.com (super_accountant) y
// accountant@example.com (accountant), todos con contraseña "password", más doce
// negocios con métricas.
//
// Uso: go run ./cmd/seed
// Si el usuario admin ya existe no se inserta nada.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/apex-am/internal/infrastructure/postgres"
	"github.com/jhoicas/apex-am/internal/seed"
	"github.com/jhoicas/apex-am/pkg/config"
	"github.com/jhoicas/apex-am/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Component: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	res, err := seed.Load(ctx, seed.Repos{
		Users:       postgres.NewUserRepository(pool),
		Accountants: postgres.NewAccountantRepository(pool),
		Businesses:  postgres.NewBusinessRepository(pool),
	}, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("cargar datos de demostración")
	}
	if res.Skipped {
		return
	}
	log.Info().
		Str("root", seed.RootEmail).
		Str("super", seed.SuperEmail).
		Str("accountant", seed.AccountantEmail).
		Str("password", seed.DemoPassword).
		Msg("usuarios de demostración")
}

// migrate aplica las migraciones SQL embebidas sobre PostgreSQL.
//
// Uso:
//
//	go run ./cmd/migrate            aplica las pendientes
//	go run ./cmd/migrate -down      revierte la última
//	go run ./cmd/migrate -version   muestra la versión actual
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Inventario-pecuario/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-pecuario/pkg/config"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "revertir la última migración")
	version := flag.Bool("version", false, "mostrar la versión del esquema")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m, err := postgres.NewMigrator(ctx, pool, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}

	switch {
	case *version:
		v, err := m.Version(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("consultar versión")
		}
		fmt.Println(v)
	case *down:
		if err := m.Down(ctx); err != nil {
			log.Fatal().Err(err).Msg("revertir migración")
		}
		log.Info().Msg("migración revertida")
	default:
		n, err := m.Up(ctx)
		if err != nil {
			log.Fatal().Err(err).Int("applied", n).Msg("aplicar migraciones")
		}
		log.Info().Int("applied", n).Msg("esquema actualizado")
	}
}

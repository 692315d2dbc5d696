// migrate aplica o revierte el esquema de PostgreSQL.
//
// Uso: go run ./cmd/migrate [up|down|steps N|version]
// Por defecto usa las migraciones embebidas; DB_MIGRATIONS_PATH apunta a un directorio alternativo.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/pathassist/lab-billing/internal/infrastructure/postgres"
	"github.com/pathassist/lab-billing/pkg/config"
	"github.com/pathassist/lab-billing/pkg/logger"
)

const usage = "Uso: migrate [up|down|steps N|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	m, err := newMigrate(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("crear instancia de migrate")
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migración up fallida")
		}
		log.Info().Msg("migraciones aplicadas")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migración down fallida")
		}
		log.Info().Msg("migraciones revertidas")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requiere un número")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("argumento steps inválido")
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migración steps fallida")
		}
		log.Info().Int("steps", n).Msg("pasos aplicados")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("obtener versión")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("comando desconocido: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}

func newMigrate(db config.DBConfig) (*migrate.Migrate, error) {
	if db.MigrationsPath != "" {
		return migrate.New("file://"+db.MigrationsPath, db.ConnectionString())
	}
	src, err := iofs.New(postgres.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("fuente embebida: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, db.ConnectionString())
}

package postgres

import "embed"

// Migrations esquema SQL versionado para golang-migrate (fuente iofs).
//
//go:embed migrations/*.sql
var Migrations embed.FS

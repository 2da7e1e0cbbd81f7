// seed inicializa el almacenamiento configurado: siembra los guardias por defecto (si la clave
// no existe) y, si se indica, reemplaza la nómina con una planilla CSV.
//
// Uso: go run ./cmd/seed [ruta/nomina.csv]
// Usa la misma configuración que la API (STORE_DRIVER, SQLITE_PATH, DATABASE_URL, REDIS_URL...).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/beneficios-api/internal/application/bootstrap"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/storage"
	"github.com/jhoicas/beneficios-api/pkg/config"
	"github.com/jhoicas/beneficios-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	uc := bootstrap.NewUseCase(backend.Guards, backend.Guards, backend.Roster, backend.Notifier, csvimport.NewParser(), cfg.Guard.PasswordMode)

	seeded, err := uc.SeedGuards(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar guardias: %v\n", err)
		os.Exit(1)
	}
	if seeded {
		fmt.Printf("Guardias por defecto creados (%d) en %s\n", len(bootstrap.DefaultGuards), cfg.Store.Driver)
	} else {
		fmt.Println("Guardias ya existentes, no se modificaron")
	}

	if len(os.Args) < 2 {
		return
	}
	csvPath := os.Args[1]
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	res, err := uc.ImportRoster(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar nómina: %v\n", err)
		os.Exit(1)
	}
	for _, w := range res.Warnings {
		fmt.Printf("  advertencia %s\n", w)
	}
	fmt.Printf("Importados %s: %d trabajadores, %d advertencias\n", csvPath, res.Imported, len(res.Warnings))
}

// cmd/evalperiod/main.go — Evalua un periodo a mano.
// Uso: go run cmd/evalperiod/main.go -desde 2026-08-01 -hasta 2026-08-16
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"essence/backend/internal/config"
	"essence/backend/internal/infra"
	"essence/backend/internal/repository"
	"essence/backend/internal/service"
)

func main() {
	desdeFlag := flag.String("desde", "", "inicio de la ventana (YYYY-MM-DD)")
	hastaFlag := flag.String("hasta", "", "fin exclusivo de la ventana (YYYY-MM-DD)")
	notasFlag := flag.String("notas", "", "notas opcionales para el registro del ganador")
	flag.Parse()

	if *desdeFlag == "" || *hastaFlag == "" {
		log.Fatal("se requieren -desde y -hasta")
	}
	desde, err := time.Parse("2006-01-02", *desdeFlag)
	if err != nil {
		log.Fatalf("desde invalido: %v", err)
	}
	hasta, err := time.Parse("2006-01-02", *hastaFlag)
	if err != nil {
		log.Fatalf("hasta invalido: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis connect error: %v", err)
	}

	ventaRepo := repository.NewVentaRepository(db)
	rankingRepo := repository.NewRankingRepository(db)
	gamificacionRepo := repository.NewGamificacionRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	gananciaSvc := service.NewGananciaService(repository.NewGananciaRepository(db))
	comisionSvc := service.NewComisionService(gamificacionRepo, rankingRepo, rdb)
	rankingSvc := service.NewRankingService(ventaRepo, rankingRepo, gamificacionRepo, usuarioRepo, gananciaSvc, comisionSvc, rdb)

	var notas *string
	if *notasFlag != "" {
		notas = notasFlag
	}

	ganador, err := rankingSvc.EvaluarPeriodo(context.Background(), desde, hasta, notas)
	if err != nil {
		log.Fatalf("evaluacion fallida: %v", err)
	}
	fmt.Printf("✅ Periodo [%s, %s) evaluado — ganador: %s (%s), bonus %s\n",
		*desdeFlag, *hastaFlag, ganador.GanadorNombre, ganador.GanadorID, ganador.MontoBonus.String())
}

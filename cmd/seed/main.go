package main

// Seeds a development database with a couple of warehouses, a handful of
// products, and stock entries to reserve against. Idempotent: re-running
// updates nothing that already exists.

import (
	"os"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/config"
	"github.com/Kavin-Nithil/inventory-svc/internal/infra"
	"github.com/Kavin-Nithil/inventory-svc/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	warehouses := []model.Warehouse{
		{Code: "NYC", Name: "New York", Location: "Brooklyn, NY", Active: true},
		{Code: "SFO", Name: "San Francisco", Location: "Oakland, CA", Active: true},
	}
	for i := range warehouses {
		if err := db.Where("code = ?", warehouses[i].Code).FirstOrCreate(&warehouses[i]).Error; err != nil {
			log.Fatal().Err(err).Str("code", warehouses[i].Code).Msg("failed to seed warehouse")
		}
	}

	products := []model.Product{
		{SKU: "WIDGET-001", Name: "Widget", Description: "Standard widget"},
		{SKU: "GADGET-002", Name: "Gadget", Description: "Deluxe gadget"},
		{SKU: "GIZMO-003", Name: "Gizmo", Description: "Compact gizmo"},
	}
	for i := range products {
		if err := db.Where("sku = ?", products[i].SKU).FirstOrCreate(&products[i]).Error; err != nil {
			log.Fatal().Err(err).Str("sku", products[i].SKU).Msg("failed to seed product")
		}
	}

	seeded := 0
	for _, p := range products {
		for _, w := range warehouses {
			entry := model.StockEntry{ProductID: p.ID, WarehouseID: w.ID, OnHand: 100}
			err := db.Where("product_id = ? AND warehouse_id = ?", p.ID, w.ID).
				FirstOrCreate(&entry).Error
			if err != nil {
				log.Fatal().Err(err).Str("sku", p.SKU).Str("warehouse", w.Code).Msg("failed to seed stock entry")
			}
			seeded++
		}
	}

	log.Info().
		Int("warehouses", len(warehouses)).
		Int("products", len(products)).
		Int("stock_entries", seeded).
		Msg("seed complete")
}

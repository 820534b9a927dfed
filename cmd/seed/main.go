// seed convierte un listado de productos en CSV (separado por ";", UTF-8 o ISO-8859-1)
// en un script SQL para las tablas categories y products.
//
// Uso: go run ./cmd/seed [-encoding auto|utf-8|latin1] [-out archivo.sql] [-apply] productos.csv
// Sin -out escribe el script en la salida estándar. Con -apply además aplica las migraciones y
// carga los productos en la base de DATABASE_URL / DB_* dentro de una transacción.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jhoicas/aura-storefront/internal/infrastructure/postgres"
	"github.com/jhoicas/aura-storefront/pkg/config"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

func main() {
	encoding := flag.String("encoding", "auto", "codificación del CSV: auto, utf-8 o latin1")
	outPath := flag.String("out", "", "archivo SQL de salida (por defecto stdout)")
	apply := flag.Bool("apply", false, "cargar los productos en la base configurada")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed [-encoding auto|utf-8|latin1] [-out archivo.sql] [-apply] productos.csv")
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	content, err := decodeInput(raw, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar CSV: %v\n", err)
		os.Exit(1)
	}
	products, err := parseCatalogCSV(bytes.NewReader(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := renderSQL(out, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	if *apply {
		if err := applySeed(products); err != nil {
			fmt.Fprintf(os.Stderr, "Aplicar seed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Fprintf(os.Stderr, "Generado: %d categorías, %d productos\n", len(categoryNames(products)), len(products))
}

func applySeed(products []seedProduct) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Out: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	return postgres.NewTxRunner(pool).Run(ctx, func(q postgres.Querier) error {
		ids := map[string]int64{}
		for _, name := range categoryNames(products) {
			var id int64
			err := q.QueryRow(ctx,
				`INSERT INTO categories (name) VALUES ($1)
				 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				 RETURNING id`, name).Scan(&id)
			if err != nil {
				return fmt.Errorf("categoría %q: %w", name, err)
			}
			ids[name] = id
		}
		for _, p := range products {
			_, err := q.Exec(ctx,
				`INSERT INTO products (name, description, price, image_url, image_url_2, category_id, is_active)
				 VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
				p.Name, p.Description, p.Price, p.ImageURL, p.ImageURL2, ids[p.Category], p.Active)
			if err != nil {
				return fmt.Errorf("producto %q: %w", p.Name, err)
			}
		}
		log.Info().Int("productos", len(products)).Msg("seed aplicado")
		return nil
	})
}

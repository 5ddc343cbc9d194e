package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

const upsertBatchSize = 200

// Postgres persists the catalog in a single table keyed by product id,
// one JSONB document per record.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// OpenPostgres connects a pool and ensures the catalog table exists.
func OpenPostgres(ctx context.Context, dsn, schema string, maxConns int) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns <= 0 {
		maxConns = 2
	}
	cfg.MaxConns = int32(maxConns)
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	p := &Postgres{pool: pool, table: fmt.Sprintf(`%q.catalog_products`, schema)}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+p.table+` (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("ensure catalog table: %w", err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context) ([]model.Product, error) {
	rows, err := p.pool.Query(ctx, `SELECT doc FROM `+p.table)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		var prod model.Product
		if err := json.Unmarshal(doc, &prod); err != nil {
			return nil, fmt.Errorf("decode catalog row: %w", err)
		}
		products = append(products, prod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}

// Save upserts every record in batches and prunes rows whose ids left
// the snapshot, keeping the table an exact mirror of the catalog.
func (p *Postgres) Save(ctx context.Context, products []model.Product) error {
	ids := make([]string, 0, len(products))
	for i := 0; i < len(products); i += upsertBatchSize {
		j := i + upsertBatchSize
		if j > len(products) {
			j = len(products)
		}
		b := &pgx.Batch{}
		count := 0
		for _, prod := range products[i:j] {
			doc, err := json.Marshal(prod)
			if err != nil {
				return fmt.Errorf("encode product %s: %w", prod.ID, err)
			}
			b.Queue(`INSERT INTO `+p.table+` (id, doc, updated_at)
				VALUES ($1, $2, now())
				ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
				prod.ID, doc)
			ids = append(ids, prod.ID)
			count++
		}
		br := p.pool.SendBatch(ctx, b)
		for k := 0; k < count; k++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("save catalog batch: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("save catalog batch: %w", err)
		}
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM `+p.table+` WHERE NOT (id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("prune catalog: %w", err)
	}
	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	p.pool.Close()
	return nil
}

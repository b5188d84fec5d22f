package database

import (
	"context"
	"database/sql"
	"fmt"
)

// hero_slides.portfolio_item_id is checked at commit so a portfolio delete and
// the slide cascade it triggers can run as separate statements in one
// transaction.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS portfolio_items (
		id TEXT PRIMARY KEY,
		seq BIGSERIAL NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		image_ref TEXT NOT NULL,
		public_id TEXT NOT NULL DEFAULT '',
		uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		sort_order INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_portfolio_items_image_ref ON portfolio_items(image_ref);`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_items_order ON portfolio_items(sort_order, seq);`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_items_category ON portfolio_items(lower(category));`,
	`CREATE TABLE IF NOT EXISTS hero_slides (
		id TEXT PRIMARY KEY,
		portfolio_item_id TEXT NOT NULL
			REFERENCES portfolio_items(id) DEFERRABLE INITIALLY DEFERRED,
		snapshot JSONB NOT NULL,
		sort_order INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT false,
		added_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_hero_slides_portfolio_item ON hero_slides(portfolio_item_id);`,
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		username VARCHAR(64) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'admin',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_email_lower ON admins(lower(email));`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}

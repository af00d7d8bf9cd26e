package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, glob string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", glob))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", glob)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_variations",
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS metals",
		"CREATE TABLE IF NOT EXISTS diamond_shapes",
		"CREATE TABLE IF NOT EXISTS shanks",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku",
		"metal_variations jsonb NOT NULL DEFAULT '[]'",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_order_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS order_counters",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_details",
		"CREATE TABLE IF NOT EXISTS saved_addresses",
		"order_number text NOT NULL DEFAULT '0'",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_number",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_addresses_account_id",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

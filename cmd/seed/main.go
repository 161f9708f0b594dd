package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ecomstack/storefront-api/config"
	"github.com/ecomstack/storefront-api/internal/domain/entity"
	"github.com/ecomstack/storefront-api/pkg/helpers"
)

// Seeds a local database with an admin, a demo buyer, a small catalog, and
// one order so every endpoint has data to serve. Idempotent via upserts.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := upsertUser(db, "Admin", "admin@example.com", "admin123", "0800000001", "1 Admin Way", "blue", entity.RoleAdmin)
	buyerID := upsertUser(db, "Demo Buyer", "buyer@example.com", "buyer123", "0800000002", "2 Buyer Street", "red", entity.RoleUser)
	fmt.Printf("seeded users: admin=%s buyer=%s\n", adminID, buyerID)

	catID := upsertCategory(db, "Books", "books")
	var productIDs []string
	for _, p := range []struct {
		name, slug, desc string
		price            float64
		qty              int
	}{
		{"The Go Programming Language", "the-go-programming-language", "Donovan and Kernighan's language reference.", 39.99, 12},
		{"Designing Data-Intensive Applications", "designing-data-intensive-applications", "Kleppmann on storage and distributed systems.", 44.50, 7},
		{"A Philosophy of Software Design", "a-philosophy-of-software-design", "Ousterhout on managing complexity.", 21.00, 20},
		{"The Pragmatic Programmer", "the-pragmatic-programmer", "Hunt and Thomas, 20th anniversary edition.", 35.25, 15},
	} {
		productIDs = append(productIDs, upsertProduct(db, p.name, p.slug, p.desc, p.price, catID, p.qty))
	}
	fmt.Printf("seeded category=%s with %d products\n", catID, len(productIDs))

	orderID := seedOrder(db, buyerID, productIDs[:2])
	fmt.Printf("seeded order=%s for buyer=%s\n", orderID, buyerID)
}

func upsertUser(db *sql.DB, name, email, password, phone, address, answer string, role int) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, phone, address, answer, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role, updated_at = now()
		RETURNING id
	`, name, email, hash, phone, address, answer, role).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

func upsertCategory(db *sql.DB, name, slug string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, slug).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed category %s: %v", slug, err)
	}
	return id
}

func upsertProduct(db *sql.DB, name, slug, description string, price float64, categoryID string, quantity int) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO products (name, slug, description, price, category_id, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, quantity = EXCLUDED.quantity, updated_at = now()
		RETURNING id
	`, name, slug, description, price, categoryID, quantity).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed product %s: %v", slug, err)
	}
	return id
}

func seedOrder(db *sql.DB, buyerID string, productIDs []string) string {
	var existing string
	err := db.QueryRow(`SELECT id FROM orders WHERE buyer_id = $1 LIMIT 1`, buyerID).Scan(&existing)
	if err == nil {
		return existing
	}
	if err != sql.ErrNoRows {
		log.Fatalf("failed to check existing orders: %v", err)
	}

	var orderID string
	err = db.QueryRow(`
		INSERT INTO orders (buyer_id, status, payment_success)
		VALUES ($1, $2, true)
		RETURNING id
	`, buyerID, entity.StatusNotProcessed).Scan(&orderID)
	if err != nil {
		log.Fatalf("failed to seed order: %v", err)
	}
	for i, pid := range productIDs {
		if _, err := db.Exec(`
			INSERT INTO order_products (order_id, product_id, position)
			VALUES ($1, $2, $3)
		`, orderID, pid, i); err != nil {
			log.Fatalf("failed to seed order product: %v", err)
		}
	}
	return orderID
}

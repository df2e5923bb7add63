package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ramen-storefront/models"
)

// ErrNotFound is returned when a catalog entity does not exist.
var ErrNotFound = errors.New("not found")

// CatalogStore reads menu items, categories and payment methods from
// Postgres. The storefront treats it as read-only; the Add/Delete operations
// exist for the administrative editor.
type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

const menuItemColumns = `
	id, category, name, description, base_price, discount_price, on_discount,
	variations, add_ons, available, popular, image_url`

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var id int64
	var m models.MenuItem
	var variationsJSON, addOnsJSON []byte
	err := row.Scan(&id, &m.CategoryID, &m.Name, &m.Description, &m.BasePrice,
		&m.DiscountPrice, &m.OnDiscount, &variationsJSON, &addOnsJSON,
		&m.Available, &m.Popular, &m.ImageURL)
	if err != nil {
		return nil, err
	}
	m.ID = strconv.FormatInt(id, 10)
	if len(variationsJSON) > 0 {
		if err := json.Unmarshal(variationsJSON, &m.Variations); err != nil {
			return nil, fmt.Errorf("unmarshal variations for item %d: %w", id, err)
		}
	}
	if len(addOnsJSON) > 0 {
		if err := json.Unmarshal(addOnsJSON, &m.AddOns); err != nil {
			return nil, fmt.Errorf("unmarshal add-ons for item %d: %w", id, err)
		}
	}
	return &m, nil
}

func (s *CatalogStore) listMenu(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (s *CatalogStore) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.listMenu(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		ORDER BY category, id`)
}

func (s *CatalogStore) ListMenuByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	return s.listMenu(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE category = $1
		ORDER BY id`,
		category)
}

func (s *CatalogStore) GetMenuItem(ctx context.Context, idStr string) (*models.MenuItem, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}
	m, err := scanMenuItem(s.pool.QueryRow(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// AddMenuItem inserts a menu item for the administrative editor and returns
// its id.
func (s *CatalogStore) AddMenuItem(ctx context.Context, m *models.MenuItem) (string, error) {
	if m.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if m.BasePrice < 0 {
		return "", fmt.Errorf("base price must be >= 0")
	}
	variationsJSON, err := json.Marshal(m.Variations)
	if err != nil {
		return "", fmt.Errorf("marshal variations: %w", err)
	}
	addOnsJSON, err := json.Marshal(m.AddOns)
	if err != nil {
		return "", fmt.Errorf("marshal add-ons: %w", err)
	}
	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO menu_items (
			category, name, description, base_price, discount_price, on_discount,
			variations, add_ons, available, popular, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		m.CategoryID, m.Name, m.Description, m.BasePrice, m.DiscountPrice,
		m.OnDiscount, variationsJSON, addOnsJSON, m.Available, m.Popular, m.ImageURL,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *CatalogStore) DeleteMenuItem(ctx context.Context, idStr string) error {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	return err
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, icon, sort_order FROM categories
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.SortOrder); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *CatalogStore) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, account_name, account_number, qr_code_url
		FROM payment_methods
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var pm models.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.AccountName, &pm.AccountNumber, &pm.QRCodeURL); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

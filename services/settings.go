package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ramen-storefront/models"
)

// defaultSettings backs the storefront before the settings row exists.
var defaultSettings = models.SiteSettings{
	SiteName:        "FujiRamen",
	SiteDescription: "Angeles Branch",
	SiteLogo:        "/logo.jpg",
	Currency:        "₱",
	CurrencyCode:    "PHP",
}

// SettingsStore reads and updates the single-row site settings.
type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

// Get returns the stored settings, or the built-in defaults when the row has
// never been written.
func (s *SettingsStore) Get(ctx context.Context) (*models.SiteSettings, error) {
	var st models.SiteSettings
	err := s.pool.QueryRow(ctx, `
		SELECT site_name, site_description, site_logo, currency, currency_code
		FROM site_settings WHERE id = 1`,
	).Scan(&st.SiteName, &st.SiteDescription, &st.SiteLogo, &st.Currency, &st.CurrencyCode)
	if err != nil {
		st = defaultSettings
		return &st, nil
	}
	return &st, nil
}

// Update upserts the settings row. Callers must only persist a new logo URL
// after its upload succeeded, so a failed upload leaves prior state intact.
func (s *SettingsStore) Update(ctx context.Context, st *models.SiteSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO site_settings (id, site_name, site_description, site_logo, currency, currency_code, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			site_name = $1,
			site_description = $2,
			site_logo = $3,
			currency = $4,
			currency_code = $5,
			updated_at = now()`,
		st.SiteName, st.SiteDescription, st.SiteLogo, st.Currency, st.CurrencyCode,
	)
	return err
}

// Uploader stores an image blob under a logical slot name and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, slot, filename string, r io.Reader) (string, error)
}

// DiskUploader writes uploads to a local directory served as static files.
type DiskUploader struct {
	Dir     string // filesystem directory, created on demand
	BaseURL string // public prefix, e.g. "/uploads"
}

func (u *DiskUploader) Upload(ctx context.Context, slot, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	name := fmt.Sprintf("%s-%s%s", slot, uuid.NewString(), ext)
	path := filepath.Join(u.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return strings.TrimRight(u.BaseURL, "/") + "/" + name, nil
}

package models

type PaymentMethod struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	QRCodeURL     string `json:"qr_code_url,omitempty"`
}

// SiteSettings is the single-row storefront configuration edited by the
// administrative settings screen.
type SiteSettings struct {
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
	SiteLogo        string `json:"site_logo"`
	Currency        string `json:"currency"`
	CurrencyCode    string `json:"currency_code"`
}

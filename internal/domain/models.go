package domain

type Product struct {
	Code        string  `db:"code" json:"code" yaml:"code"`
	Description string  `db:"description" json:"description" yaml:"description"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price" yaml:"unit_price"`
	Image       string  `db:"image" json:"image,omitempty" yaml:"image"`
}

type Sale struct {
	ID        int64   `db:"id" json:"id"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	Total     float64 `db:"total" json:"total"`
}

type SaleLine struct {
	ID          int64   `db:"id" json:"id"`
	SaleID      int64   `db:"sale_id" json:"sale_id"`
	ProductCode string  `db:"product_code" json:"product_code"`
	Description string  `db:"description" json:"description"`
	Quantity    int     `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

// LineView is one row of the checkout grid.
type LineView struct {
	Code        string  `db:"product_code" json:"code"`
	Description string  `db:"description" json:"description"`
	Quantity    int     `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

// ScanResult describes the product affected by a scan and its quantity in
// the open sale after the scan.
type ScanResult struct {
	SaleID    int64   `json:"sale_id"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Screen is everything the checkout screen shows for the open sale.
type Screen struct {
	SaleID   int64       `json:"sale_id,omitempty"`
	Open     bool        `json:"open"`
	Lines    []LineView  `json:"lines"`
	Total    float64     `json:"total"`
	Selected *ScanResult `json:"selected,omitempty"`
}

type Receipt struct {
	SaleID int64   `json:"sale_id"`
	Total  float64 `json:"total"`
	Items  int     `json:"items"`
}

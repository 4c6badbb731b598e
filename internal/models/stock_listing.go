package models

import "time"

// SellType distinguishes publishing by profile slot from publishing a whole
// account.
type SellType string

const (
	SellByProfile SellType = "profile"
	SellFull      SellType = "full"
)

// FullUnit is the unit key used when a whole account is sold.
const FullUnit = "full"

// StockListing is one sellable unit published from a source account. A
// profile-mode publish produces one row per selected slot; a full-mode
// publish produces a single row with unit "full". Publishing never mutates
// the source account.
type StockListing struct {
	ID          int       `db:"id" json:"id"`
	SourceID    int       `db:"source_id" json:"sourceId"`
	SourceType  Pool      `db:"source_type" json:"sourceType"`
	CategoryID  int       `db:"category_id" json:"categoryId"`
	SellType    SellType  `db:"sell_type" json:"sellType"`
	Unit        string    `db:"unit" json:"unit"`
	Price       int       `db:"price" json:"price"`
	PIN         string    `db:"pin" json:"pin"`
	DisplayName string    `db:"display_name" json:"displayName"`
	IsSold      bool      `db:"is_sold" json:"isSold"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PublishRequest is the packaged output of the publish wizard: the source
// account reference plus per-unit prices, pins and names keyed by profile
// slot or "full".
type PublishRequest struct {
	ID             int               `json:"id"`
	Type           Pool              `json:"type"`
	SellType       SellType          `json:"sellType"`
	Prices         map[string]int    `json:"prices"`
	PINs           map[string]string `json:"pins"`
	Names          map[string]string `json:"names"`
	ProfilesToSell []string          `json:"profilesToSell"`
}

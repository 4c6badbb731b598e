package models

import "time"

// InternalOrder is a manually recorded sale made outside the storefront.
type InternalOrder struct {
	ID          int       `db:"id" json:"id"`
	ReferenceID string    `db:"reference_id" json:"referenceId"`
	ListingID   *int      `db:"listing_id" json:"listingId,omitempty"`
	SourceID    int       `db:"source_id" json:"sourceId"`
	SourceType  Pool      `db:"source_type" json:"sourceType"`
	Unit        string    `db:"unit" json:"unit"`
	Buyer       string    `db:"buyer" json:"buyer"`
	Price       int       `db:"price" json:"price"`
	SellerID    int       `db:"seller_id" json:"sellerId"`
	SaleDate    time.Time `db:"sale_date" json:"saleDate"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

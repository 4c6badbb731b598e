package storefront

import "time"

// EventStockPublished is the event name sent when new stock goes live.
const EventStockPublished = "stock.published"

// ListingItem is one sellable unit in an announcement.
type ListingItem struct {
	ListingID   int    `json:"listingId"`
	Unit        string `json:"unit"`
	Price       int    `json:"price"`
	DisplayName string `json:"displayName"`
}

// StockAnnouncement is the webhook payload sent to the catalog when a
// publish lands.
type StockAnnouncement struct {
	Event      string        `json:"event"`
	SourceID   int           `json:"sourceId"`
	SourceType string        `json:"sourceType"`
	CategoryID int           `json:"categoryId"`
	SellType   string        `json:"sellType"`
	Listings   []ListingItem `json:"listings"`
	Timestamp  time.Time     `json:"timestamp"`
}

package models

import "time"

// Platforms is the fixed set of marketplace channels carried by the feed, in
// legend/series order. The feed dedicates one column group per entry
// (<name>, <name>_PrixPromo, <name>_DateDebut, <name>_DateFin), so adding a
// channel is an enumeration change here, never a runtime column scan.
var Platforms = []string{
	"AMZ_FR",
	"Cdiscount",
	"Cdiscount_FF",
	"LeroyMerlin",
	"LeroyMerlin_FF",
	"Mano_FR",
	"Mano_FR_FF",
	"Mano_Pro",
	"Mano_Pro_FF",
	"Autres",
}

// KnownPlatform reports whether name belongs to the fixed channel set.
func KnownPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}

// PriceRecord is one price observation for one sku on one platform at one
// ingestion timestamp. Records are append-only: ingestion never updates or
// deletes what a previous run wrote.
//
// Price and DiscountedPrice use 0 as a "not reported" sentinel inherited
// from the feed; a stored 0 is distinguishable from a genuine zero price
// only by convention, not by type.
type PriceRecord struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	SKU             string  `json:"sku" gorm:"column:sku;index;not null"`
	Qty             int     `json:"qty" gorm:"column:qty"`
	Platform        string  `json:"platform" gorm:"index;not null"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"discounted_price"`
	// Promo validity window, kept as the feed's raw date strings; empty means
	// the promo carries no declared bound on that side.
	DiscountStart string    `json:"discount_start"`
	DiscountEnd   string    `json:"discount_end"`
	Timestamp     time.Time `json:"timestamp" gorm:"index"`
}

func (PriceRecord) TableName() string {
	return "price_records"
}

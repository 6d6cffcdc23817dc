package model

type BinLocation struct {
	BaseModel
	ShopID string `db:"shop_id" json:"shop_id"`
	Code   string `db:"code" json:"code"`
}

// VariantBin is the current bin of one catalog variant. There is at most one
// row per (shop_id, variant_gid); reassignment overwrites bin_location_id.
type VariantBin struct {
	BaseModel
	ShopID        string `db:"shop_id" json:"shop_id"`
	VariantGID    string `db:"variant_gid" json:"variant_gid"`
	BinLocationID string `db:"bin_location_id" json:"bin_location_id"`
	BinCode       string `db:"bin_code" json:"bin_code"` // joined from bin_locations
}

type AssignmentStatus string

const (
	AssignmentUnchanged AssignmentStatus = "unchanged"
	AssignmentCreated   AssignmentStatus = "created"
	AssignmentUpdated   AssignmentStatus = "updated"
)

type AssignmentResult struct {
	Status          AssignmentStatus
	Bin             *BinLocation
	VariantGID      string
	PreviousBinCode *string
}

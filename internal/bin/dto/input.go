package dto

type AssignInput struct {
	ShopID     string
	VariantGID string
	BinCode    string
}

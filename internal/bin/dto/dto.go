package dto

type BinSearchFilters struct {
	ShopID string
	Query  string // code prefix
	Limit  int
}

package dto

type CatalogOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration_minutes,omitempty"`
}

type CatalogResponse struct {
	Domains   []CatalogOption `json:"domains"`
	Levels    []CatalogOption `json:"levels"`
	TestTypes []CatalogOption `json:"test_types"`
	Badges    []BadgeResponse `json:"badges"`
}

package messages

type PlacementView struct {
	City        string `json:"city"`
	Color       string `json:"color"`
	Requested   int    `json:"requested"`
	BeforeTotal int    `json:"before_total"`
	Stored      int    `json:"stored"`
	Outbreak    bool   `json:"outbreak"`
}

type InfectionView struct {
	City     string `json:"city"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

package model

// CropProfile is the descriptive answer for a single identified crop.
type CropProfile struct {
	Name          string   `json:"name"`
	NameEN        string   `json:"name_en"`
	Category      string   `json:"category"`
	Season        string   `json:"season"`
	Nutrition     string   `json:"nutrition"`
	Storage       string   `json:"storage"`
	Taste         string   `json:"taste"`
	FamousRegions []string `json:"famous_regions"`
	Confidence    float64  `json:"confidence"`
}

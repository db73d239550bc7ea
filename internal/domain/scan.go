package domain

import "time"

type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type DetectedItem struct {
	ItemType    string       `json:"item_type"`
	Name        string       `json:"name,omitempty"`
	Barcode     string       `json:"barcode,omitempty"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

type ScanResult struct {
	ScanID           string         `json:"scan_id"`
	DetectedItems    []DetectedItem `json:"detected_items"`
	ProcessingTimeMS float64        `json:"processing_time_ms"`
	Timestamp        time.Time      `json:"timestamp"`
	Status           string         `json:"status"`
	Message          string         `json:"message,omitempty"`
	ArchiveKey       string         `json:"archive_key,omitempty"`
}

type AllergenWarning struct {
	Allergen string `json:"allergen"`
	Severity string `json:"severity"`
	Source   string `json:"source"`
}

type NutritionInfo struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

type AnalysisResult struct {
	AnalysisID       string            `json:"analysis_id"`
	ProductName      string            `json:"product_name"`
	Barcode          string            `json:"barcode,omitempty"`
	IsSafe           bool              `json:"is_safe"`
	SafetyScore      float64           `json:"safety_score"`
	AllergenWarnings []AllergenWarning `json:"allergen_warnings"`
	DietaryConflicts []string          `json:"dietary_conflicts"`
	NutritionInfo    *NutritionInfo    `json:"nutrition_info,omitempty"`
	Ingredients      []string          `json:"ingredients"`
	Recommendations  []string          `json:"recommendations"`
	Personalized     bool              `json:"personalized"`
	Timestamp        time.Time         `json:"timestamp"`
	Status           string            `json:"status"`
	Message          string            `json:"message,omitempty"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
)

const MaxScanImageBytes = 10 << 20

var ErrImageTooLarge = errors.New("image too large")

// Ingredientes y tabla nutricional del producto simulado que devuelve /analyze.
var mockIngredients = []string{
	"wheat flour",
	"sugar",
	"peanut oil",
	"milk",
	"salt",
	"baking powder",
}

// Alergenos que el producto simulado contiene, con el ingrediente que los aporta.
var mockAllergenSources = map[string]string{
	"peanuts": "Contains peanut oil in ingredients",
	"milk":    "Contains milk in ingredients",
	"dairy":   "Contains milk in ingredients",
	"wheat":   "Contains wheat flour in ingredients",
	"gluten":  "Contains wheat flour in ingredients",
}

var mockDietaryConflicts = map[string]string{
	"vegan":       "Contains milk (not suitable for vegan diet)",
	"dairy-free":  "Contains milk (not suitable for dairy-free diet)",
	"gluten-free": "Contains wheat flour (not suitable for gluten-free diet)",
}

// ScanService atiende los endpoints simulados de escaneo y analisis.
type ScanService struct {
	logger  *zap.Logger
	prefs   *PreferencesService
	archive ScanArchive
	now     func() time.Time
}

func NewScanService(logger *zap.Logger, prefs *PreferencesService, archive ScanArchive) *ScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{
		logger:  logger,
		prefs:   prefs,
		archive: archive,
		now:     time.Now,
	}
}

type ScanImageInput struct {
	ContentType string
	Data        []byte
}

func (s *ScanService) ScanImage(ctx context.Context, identity domain.Identity, input ScanImageInput) (domain.ScanResult, error) {
	if !strings.HasPrefix(input.ContentType, "image/") {
		return domain.ScanResult{}, fmt.Errorf("%w: invalid file type, please upload an image file", domain.ErrMalformed)
	}
	if len(input.Data) > MaxScanImageBytes {
		return domain.ScanResult{}, ErrImageTooLarge
	}

	result := domain.ScanResult{
		ScanID: uuid.NewString(),
		DetectedItems: []domain.DetectedItem{
			{
				ItemType:    "barcode",
				Name:        "Product Barcode",
				Barcode:     "012345678905",
				Confidence:  0.95,
				BoundingBox: &domain.BoundingBox{X: 100, Y: 150, Width: 200, Height: 80},
			},
			{
				ItemType:    "food",
				Name:        "Apple",
				Confidence:  0.87,
				BoundingBox: &domain.BoundingBox{X: 50, Y: 50, Width: 150, Height: 150},
			},
		},
		ProcessingTimeMS: 245.3,
		Timestamp:        s.now().UTC(),
		Status:           "success",
		Message:          "Mock scan complete.",
	}

	if s.archive != nil {
		owner := "anonymous"
		if user, ok := identity.User(); ok {
			owner = user.ID
		}
		key := fmt.Sprintf("scans/%s/%s", owner, result.ScanID)
		if err := s.archive.Put(ctx, key, input.ContentType, input.Data); err != nil {
			s.logger.Warn("scan archive failed", zap.String("scan_id", result.ScanID), zap.Error(err))
		} else {
			result.ArchiveKey = key
		}
	}
	return result, nil
}

type AnalyzeInput struct {
	Barcode     string
	ProductName string
}

// Analyze devuelve un analisis simulado. Solo se personaliza para una identidad
// conocida con preferencias guardadas.
func (s *ScanService) Analyze(ctx context.Context, identity domain.Identity, input AnalyzeInput) (domain.AnalysisResult, error) {
	barcode := strings.TrimSpace(input.Barcode)
	productName := strings.TrimSpace(input.ProductName)
	if barcode == "" && productName == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: either barcode or product_name must be provided", domain.ErrMalformed)
	}
	if productName == "" {
		productName = "Product " + barcode
	}

	result := domain.AnalysisResult{
		AnalysisID:       uuid.NewString(),
		ProductName:      productName,
		Barcode:          barcode,
		AllergenWarnings: []domain.AllergenWarning{},
		DietaryConflicts: []string{},
		NutritionInfo: &domain.NutritionInfo{
			Calories:      250,
			Protein:       8,
			Carbohydrates: 30,
			Fat:           12,
			Fiber:         3,
			Sugar:         15,
			Sodium:        180,
		},
		Ingredients: append([]string{}, mockIngredients...),
		Timestamp:   s.now().UTC(),
		Status:      "success",
		Message:     "Mock analysis complete.",
	}

	prefs, ok, err := s.preferencesFor(ctx, identity)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if ok {
		result.Personalized = true
		for _, allergy := range prefs.Allergies {
			if source, hit := mockAllergenSources[allergy]; hit {
				result.AllergenWarnings = append(result.AllergenWarnings, domain.AllergenWarning{
					Allergen: allergy,
					Severity: "high",
					Source:   source,
				})
			}
		}
		for _, restriction := range prefs.DietaryRestrictions {
			if conflict, hit := mockDietaryConflicts[restriction]; hit {
				result.DietaryConflicts = append(result.DietaryConflicts, conflict)
			}
		}
	}

	result.IsSafe = len(result.AllergenWarnings) == 0 && len(result.DietaryConflicts) == 0
	if result.IsSafe {
		result.SafetyScore = 85
		result.Recommendations = []string{
			"This product appears safe based on your preferences",
			"Moderate consumption recommended due to sugar content",
		}
	} else {
		result.SafetyScore = 35
		result.Recommendations = []string{
			"This product contains ingredients that conflict with your profile",
			"Consider alternative products",
		}
	}
	return result, nil
}

func (s *ScanService) preferencesFor(ctx context.Context, identity domain.Identity) (domain.Preferences, bool, error) {
	user, ok := identity.User()
	if !ok || s.prefs == nil {
		return domain.Preferences{}, false, nil
	}
	prefs, err := s.prefs.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Preferences{}, false, nil
		}
		return domain.Preferences{}, false, err
	}
	return prefs, true, nil
}

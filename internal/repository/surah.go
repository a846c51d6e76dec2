package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

var (
	ErrSurahNotFound  = errors.New("surah not found")
	ErrInvalidNumber  = errors.New("invalid surah number")
	ErrInvalidCatalog = errors.New("invalid surah catalog")
)

const surahCatalogSchema = `{
	"type": "object",
	"required": ["surahs"],
	"properties": {
		"surahs": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["number", "name", "arabic_name", "juz", "ayah_count"],
				"properties": {
					"number":      {"type": "integer", "minimum": 1, "maximum": 114},
					"name":        {"type": "string", "minLength": 1},
					"arabic_name": {"type": "string", "minLength": 1},
					"juz":         {"type": "integer", "minimum": 1, "maximum": 30},
					"ayah_count":  {"type": "integer", "minimum": 1}
				}
			}
		}
	}
}`

// SurahRepository provides access to the catalog of 114 surahs.
type SurahRepository struct {
	surahs []*entities.Surah
}

// NewSurahRepository loads the surah catalog from a JSON file.
func NewSurahRepository(path string) (*SurahRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	surahs, err := parseSurahs(data)
	if err != nil {
		return nil, err
	}

	return &SurahRepository{surahs: surahs}, nil
}

// GetByNumber retrieves a surah by its number (1-114).
func (r *SurahRepository) GetByNumber(_ context.Context, number int) (*entities.Surah, error) {
	if number < 1 || number > entities.TotalSurahs {
		return nil, ErrInvalidNumber
	}

	for _, s := range r.surahs {
		if s.Number == number {
			return s, nil
		}
	}

	return nil, ErrSurahNotFound
}

// GetAll retrieves all surahs ordered by number.
func (r *SurahRepository) GetAll(_ context.Context) ([]*entities.Surah, error) {
	return r.surahs, nil
}

func parseSurahs(data []byte) ([]*entities.Surah, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(surahCatalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate surah catalog: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
	}

	var wrapper struct {
		Surahs []*entities.Surah `json:"surahs"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal surahs JSON: %w", err)
	}

	if len(wrapper.Surahs) != entities.TotalSurahs {
		return nil, fmt.Errorf("%w: expected %d surahs, got %d", ErrInvalidCatalog, entities.TotalSurahs, len(wrapper.Surahs))
	}

	for i, s := range wrapper.Surahs {
		if s.Number != i+1 {
			return nil, fmt.Errorf("%w: surah at position %d has number %d", ErrInvalidCatalog, i+1, s.Number)
		}
	}

	return wrapper.Surahs, nil
}

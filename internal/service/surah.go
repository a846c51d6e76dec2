package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/repository"
)

// SurahPage is a slice of the surah catalog for paginated lists.
type SurahPage struct {
	Surahs []*entities.Surah
	Page   int // zero based
	Pages  int
}

type SurahService struct {
	catalog SurahCatalog
}

func NewSurahService(catalog SurahCatalog) *SurahService {
	return &SurahService{catalog: catalog}
}

// GetByNumber returns a surah, mapping unknown numbers to ErrOutOfRange.
func (s *SurahService) GetByNumber(ctx context.Context, number int) (*entities.Surah, error) {
	surah, err := s.catalog.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidNumber) || errors.Is(err, repository.ErrSurahNotFound) {
			return nil, fmt.Errorf("%w: surah %d", ErrOutOfRange, number)
		}
		return nil, err
	}
	return surah, nil
}

// Page returns one page of the catalog. Out of range pages are clamped.
func (s *SurahService) Page(ctx context.Context, page, perPage int) (*SurahPage, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get surahs: %w", err)
	}
	if perPage < 1 {
		perPage = len(all)
	}

	pages := (len(all) + perPage - 1) / perPage
	if pages == 0 {
		return &SurahPage{}, nil
	}

	page = min(max(page, 0), pages-1)
	from := page * perPage
	to := min(from+perPage, len(all))

	return &SurahPage{Surahs: all[from:to], Page: page, Pages: pages}, nil
}

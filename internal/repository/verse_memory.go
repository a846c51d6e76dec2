package repository

import (
	"context"
	"sort"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

type verseKey struct {
	surah int
	ayah  int
}

// MemoryVerseStore is an in-memory verse store preloaded at construction.
// It is read-only after construction and safe for concurrent use.
type MemoryVerseStore struct {
	verses map[verseKey]entities.Verse
	counts map[int]int
}

// NewMemoryVerseStore creates a store holding the given verses.
func NewMemoryVerseStore(verses ...entities.Verse) *MemoryVerseStore {
	s := &MemoryVerseStore{
		verses: make(map[verseKey]entities.Verse, len(verses)),
		counts: make(map[int]int),
	}
	for _, v := range verses {
		k := verseKey{surah: v.Surah, ayah: v.Ayah}
		if _, ok := s.verses[k]; !ok {
			s.counts[v.Surah]++
		}
		s.verses[k] = v
	}
	return s
}

// GetVerse returns a copy of the verse or ErrVerseNotFound.
func (s *MemoryVerseStore) GetVerse(_ context.Context, surah, ayah int) (*entities.Verse, error) {
	v, ok := s.verses[verseKey{surah: surah, ayah: ayah}]
	if !ok {
		return nil, ErrVerseNotFound
	}
	return &v, nil
}

// CountVerses returns the number of verses held for a surah.
func (s *MemoryVerseStore) CountVerses(_ context.Context, surah int) (int, error) {
	return s.counts[surah], nil
}

// GetSurahVerses returns the verses of a surah ordered by ayah number.
func (s *MemoryVerseStore) GetSurahVerses(_ context.Context, surah int) ([]entities.Verse, error) {
	out := make([]entities.Verse, 0, s.counts[surah])
	for k, v := range s.verses {
		if k.surah == surah {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ayah < out[j].Ayah })
	return out, nil
}

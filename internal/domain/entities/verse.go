// Package entities contains domain entities used across the application.
package entities

import "fmt"

// Verse is a single ayah of the Quran, addressed by surah and ayah number.
type Verse struct {
	Surah       int    `json:"surah" db:"surah_number"`      // surah number (1-114)
	Ayah        int    `json:"ayah" db:"ayah_number"`        // ayah number within the surah
	Text        string `json:"text" db:"text"`               // Arabic text
	Translation string `json:"translation" db:"translation"` // optional translation, empty if absent
}

// Key returns the "surah:ayah" reference of the verse.
func (v Verse) Key() string {
	return fmt.Sprintf("%d:%d", v.Surah, v.Ayah)
}

// Surah describes a chapter of the Quran.
type Surah struct {
	Number     int    `json:"number"`      // surah number (1-114)
	Name       string `json:"name"`        // transliterated name
	ArabicName string `json:"arabic_name"` // name in Arabic
	Juz        int    `json:"juz"`         // juz the surah starts in, display only
	AyahCount  int    `json:"ayah_count"`  // total number of ayahs
}

// TotalSurahs is the number of surahs in the Quran.
const TotalSurahs = 114

// TotalAyahs is the number of ayahs in the Quran.
const TotalAyahs = 6236

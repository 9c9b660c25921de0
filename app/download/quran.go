package download

import (
	"context"
	"fmt"

	"github.com/mucahitkurt/rahle/app/quran"
)

// quranEdition is the wire shape of one edition fetch. The text edition and
// the translation edition are parallel arrays: surah n / ayah m mean the same
// verse in both responses, there is no id-based reconciliation upstream.
type quranEdition struct {
	Data struct {
		Surahs []quranSurah `json:"surahs"`
	} `json:"data"`
}

type quranSurah struct {
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	EnglishName string      `json:"englishName"`
	Ayahs       []quranAyah `json:"ayahs"`
}

type quranAyah struct {
	Number        int    `json:"number"`
	NumberInSurah int    `json:"numberInSurah"`
	Text          string `json:"text"`
}

func (f *Fetcher) fetchQuranEdition(ctx context.Context, url string) (*quranEdition, error) {
	var ed quranEdition
	if err := f.getJSON(ctx, url, &ed); err != nil {
		return nil, err
	}
	if len(ed.Data.Surahs) == 0 {
		return nil, fmt.Errorf("edition %s has no surahs array", url)
	}
	return &ed, nil
}

// zipEditions combines the two editions positionally into storage chapters.
// Any length mismatch between the editions is rejected outright: a blind zip
// would silently misalign every following verse.
func zipEditions(text, translation *quranEdition) ([]quran.Chapter, error) {
	if len(text.Data.Surahs) != quran.ChapterCount {
		return nil, fmt.Errorf("text edition has %d surahs, want %d", len(text.Data.Surahs), quran.ChapterCount)
	}
	if len(translation.Data.Surahs) != len(text.Data.Surahs) {
		return nil, fmt.Errorf("editions disagree on surah count: %d vs %d",
			len(text.Data.Surahs), len(translation.Data.Surahs))
	}

	chapters := make([]quran.Chapter, 0, quran.ChapterCount)
	for i, src := range text.Data.Surahs {
		tr := translation.Data.Surahs[i]
		if len(src.Ayahs) != len(tr.Ayahs) {
			return nil, fmt.Errorf("surah %d: editions disagree on ayah count: %d vs %d",
				src.Number, len(src.Ayahs), len(tr.Ayahs))
		}

		name := src.EnglishName
		if name == "" {
			name = src.Name
		}
		ch := quran.Chapter{
			ID:         src.Number,
			Name:       name,
			VerseCount: len(src.Ayahs),
		}
		for j, ayah := range src.Ayahs {
			ch.Verses = append(ch.Verses, quran.Verse{
				GlobalID:    ayah.Number,
				ChapterID:   src.Number,
				VerseNumber: ayah.NumberInSurah,
				Original:    ayah.Text,
				Translation: tr.Ayahs[j].Text,
			})
		}
		chapters = append(chapters, ch)
	}
	return chapters, nil
}

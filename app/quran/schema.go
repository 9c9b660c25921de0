package quran

import "context"

const ChapterCount = 114

// Verse is the smallest addressable unit of the corpus. ChapterName is only
// populated on verses extracted for a juz view, so the display layer does not
// have to re-join against chapters.
type Verse struct {
	GlobalID    int    `json:"global_id"`
	ChapterID   int    `json:"chapter_id"`
	VerseNumber int    `json:"verse_number"`
	Original    string `json:"original"`
	Translation string `json:"translation"`
	ChapterName string `json:"chapter_name,omitempty"`
}

// Chapter is the unit of primary storage: one of the 114 surahs with its
// verses embedded, ordered by verse number, 1-indexed and dense.
type Chapter struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	VerseCount int     `json:"verse_count"`
	Verses     []Verse `json:"verses"`
}

// JuzSection is the result of a juz range query: the verses of one of the 30
// fixed reading portions, stitched across chapter boundaries.
type JuzSection struct {
	ID     int     `json:"id"`
	Label  string  `json:"label"`
	Verses []Verse `json:"verses"`
}

// Store persists and queries the chapter corpus. Absence (corpus not
// downloaded, unknown chapter id) is a nil result, not an error.
type Store interface {
	Exists(ctx context.Context) (bool, error)
	SaveAll(ctx context.Context, chapters []Chapter) error
	GetChapter(ctx context.Context, id int) (*Chapter, error)
	GetJuz(ctx context.Context, juzID int) (*JuzSection, error)
	Clear(ctx context.Context) error
}

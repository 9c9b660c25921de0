package quran

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mucahitkurt/rahle/app/common"
)

// canonicalVerseCounts are the verse counts of the 114 chapters in the Hafs
// reading, summing to 6236. Used to verify that the static boundary table
// tiles the corpus.
var canonicalVerseCounts = [ChapterCount]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

func canonicalCorpus() []Chapter {
	chapters := make([]Chapter, 0, ChapterCount)
	globalID := 1
	for id := 1; id <= ChapterCount; id++ {
		chapters = append(chapters, makeChapter(id, canonicalVerseCounts[id-1], globalID))
		globalID += canonicalVerseCounts[id-1]
	}
	return chapters
}

func TestBoundaryForRange(t *testing.T) {
	for _, id := range []int{0, -1, 31, 100} {
		_, err := BoundaryFor(id)
		assert.ErrorIs(t, err, common.ErrInvalidJuz, "juz %d", id)
	}
	b, err := BoundaryFor(30)
	require.NoError(t, err)
	assert.Equal(t, VersePoint{78, 1}, b.Start)
	assert.Equal(t, VersePoint{114, 6}, b.End)
}

// The 30 portions concatenated in order must reproduce the whole corpus
// exactly once, with global ids running 1..6236 without gaps.
func TestJuzTilingCompleteness(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveAll(ctx, canonicalCorpus()))

	nextGlobalID := 1
	for juzID := 1; juzID <= 30; juzID++ {
		sec, err := s.GetJuz(ctx, juzID)
		require.NoError(t, err)
		require.NotNil(t, sec, "juz %d over full data must not be absent", juzID)
		require.NotEmpty(t, sec.Verses)
		for _, v := range sec.Verses {
			require.Equal(t, nextGlobalID, v.GlobalID,
				"juz %d breaks the global verse sequence", juzID)
			nextGlobalID++
		}
	}
	assert.Equal(t, 6237, nextGlobalID, "tiling must cover all 6236 verses")
}

func TestJuzBoundaryFiltering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveAll(ctx, canonicalCorpus()))

	// Juz 2 starts and ends inside chapter 2 (2:142..2:252).
	sec, err := s.GetJuz(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, sec)
	assert.Equal(t, 2, sec.Verses[0].ChapterID)
	assert.Equal(t, 142, sec.Verses[0].VerseNumber)
	last := sec.Verses[len(sec.Verses)-1]
	assert.Equal(t, 2, last.ChapterID)
	assert.Equal(t, 252, last.VerseNumber)
	assert.Len(t, sec.Verses, 252-142+1)

	// Juz 11 (9:93..11:5) fully contains chapter 10.
	sec, err = s.GetJuz(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, sec)
	var ch10 int
	for _, v := range sec.Verses {
		if v.ChapterID == 10 {
			ch10++
		}
	}
	assert.Equal(t, canonicalVerseCounts[9], ch10, "intermediate chapter must be kept whole")
}

func TestJuzAttachesChapterName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveAll(ctx, canonicalCorpus()))

	sec, err := s.GetJuz(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, sec)
	assert.Equal(t, "3. Cüz", sec.Label)
	for _, v := range sec.Verses {
		require.NotEmpty(t, v.ChapterName)
	}
}

func TestJuzAbsentWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sec, err := s.GetJuz(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, sec, "empty corpus yields absent, not an error")

	_, err = s.GetJuz(ctx, 0)
	assert.True(t, errors.Is(err, common.ErrInvalidJuz))
}

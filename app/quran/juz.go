package quran

import (
	"fmt"

	"github.com/mucahitkurt/rahle/app/common"
)

type VersePoint struct {
	Chapter int
	Verse   int
}

// JuzBoundary delimits one of the 30 fixed reading portions. Start and End
// are inclusive; a portion may begin or end in the middle of a chapter.
type JuzBoundary struct {
	ID    int
	Start VersePoint
	End   VersePoint
}

// JuzBoundaries is the standard (Hafs) partition of the corpus. The 30
// ranges tile the full verse sequence exactly once; the tests in
// juz_test.go verify this against the canonical verse counts.
var JuzBoundaries = [30]JuzBoundary{
	{1, VersePoint{1, 1}, VersePoint{2, 141}},
	{2, VersePoint{2, 142}, VersePoint{2, 252}},
	{3, VersePoint{2, 253}, VersePoint{3, 92}},
	{4, VersePoint{3, 93}, VersePoint{4, 23}},
	{5, VersePoint{4, 24}, VersePoint{4, 147}},
	{6, VersePoint{4, 148}, VersePoint{5, 81}},
	{7, VersePoint{5, 82}, VersePoint{6, 110}},
	{8, VersePoint{6, 111}, VersePoint{7, 87}},
	{9, VersePoint{7, 88}, VersePoint{8, 40}},
	{10, VersePoint{8, 41}, VersePoint{9, 92}},
	{11, VersePoint{9, 93}, VersePoint{11, 5}},
	{12, VersePoint{11, 6}, VersePoint{12, 52}},
	{13, VersePoint{12, 53}, VersePoint{14, 52}},
	{14, VersePoint{15, 1}, VersePoint{16, 128}},
	{15, VersePoint{17, 1}, VersePoint{18, 74}},
	{16, VersePoint{18, 75}, VersePoint{20, 135}},
	{17, VersePoint{21, 1}, VersePoint{22, 78}},
	{18, VersePoint{23, 1}, VersePoint{25, 20}},
	{19, VersePoint{25, 21}, VersePoint{27, 55}},
	{20, VersePoint{27, 56}, VersePoint{29, 45}},
	{21, VersePoint{29, 46}, VersePoint{33, 30}},
	{22, VersePoint{33, 31}, VersePoint{36, 27}},
	{23, VersePoint{36, 28}, VersePoint{39, 31}},
	{24, VersePoint{39, 32}, VersePoint{41, 46}},
	{25, VersePoint{41, 47}, VersePoint{45, 37}},
	{26, VersePoint{46, 1}, VersePoint{51, 30}},
	{27, VersePoint{51, 31}, VersePoint{57, 29}},
	{28, VersePoint{58, 1}, VersePoint{66, 12}},
	{29, VersePoint{67, 1}, VersePoint{77, 50}},
	{30, VersePoint{78, 1}, VersePoint{114, 6}},
}

// BoundaryFor resolves a juz id against the static table. Ids outside 1..30
// are a contract violation, not a user-facing condition.
func BoundaryFor(juzID int) (JuzBoundary, error) {
	if juzID < 1 || juzID > len(JuzBoundaries) {
		return JuzBoundary{}, fmt.Errorf("%w: %d", common.ErrInvalidJuz, juzID)
	}
	return JuzBoundaries[juzID-1], nil
}

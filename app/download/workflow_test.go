package download

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mucahitkurt/rahle/app/common"
	"github.com/mucahitkurt/rahle/app/config"
	"github.com/mucahitkurt/rahle/app/docstore"
	"github.com/mucahitkurt/rahle/app/hadith"
	"github.com/mucahitkurt/rahle/app/quran"
)

// testEdition builds a full 114-surah edition with small surahs; verse
// numbering is dense as the store requires.
func testEdition(prefix string, ayahsPerSurah int) *quranEdition {
	ed := &quranEdition{}
	global := 1
	for s := 1; s <= quran.ChapterCount; s++ {
		surah := quranSurah{
			Number:      s,
			Name:        fmt.Sprintf("%s surah %d", prefix, s),
			EnglishName: fmt.Sprintf("Surah %d", s),
		}
		for a := 1; a <= ayahsPerSurah; a++ {
			surah.Ayahs = append(surah.Ayahs, quranAyah{
				Number:        global,
				NumberInSurah: a,
				Text:          fmt.Sprintf("%s %d:%d", prefix, s, a),
			})
			global++
		}
		ed.Data.Surahs = append(ed.Data.Surahs, surah)
	}
	return ed
}

func serveJSON(t *testing.T, v any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	conf    *config.RahleConfig
	quran   *quran.SQLiteStore
	hadiths *hadith.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ds, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	return &testEnv{
		conf: &config.RahleConfig{
			DownloadTimeoutSeconds: 10,
		},
		quran:   quran.NewSQLiteStore(ds.DB()),
		hadiths: hadith.NewService(hadith.NewSQLiteStore(ds.DB()), nil),
	}
}

func TestDownloadQuranEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.conf.Quran.TextURL = serveJSON(t, testEdition("ar", 3)).URL
	env.conf.Quran.TranslationURL = serveJSON(t, testEdition("tr", 3)).URL

	var checkpoints []State
	w := NewWorkflow(env.conf, env.quran, env.hadiths, func(corpus string, s State) {
		checkpoints = append(checkpoints, s)
	})

	require.NoError(t, w.DownloadQuran(context.Background()))
	assert.Equal(t, StateReady, w.StateOf(CorpusQuran))
	assert.Equal(t,
		[]State{StateFetching, StateTransforming, StatePersisting, StateReady},
		checkpoints)

	exists, err := env.quran.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)

	ch, err := env.quran.GetChapter(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, 1, ch.Verses[0].VerseNumber)
	assert.Equal(t, "ar 1:1", ch.Verses[0].Original)
	assert.Equal(t, "tr 1:1", ch.Verses[0].Translation)
}

// A progress callback is allowed to read workflow state; checkpoints must
// fire with the reported state already visible through StateOf.
func TestProgressCallbackMayReadState(t *testing.T) {
	env := newTestEnv(t)
	env.conf.Quran.TextURL = serveJSON(t, testEdition("ar", 2)).URL
	env.conf.Quran.TranslationURL = serveJSON(t, testEdition("tr", 2)).URL

	var w *Workflow
	var observed []State
	w = NewWorkflow(env.conf, env.quran, env.hadiths, func(corpus string, s State) {
		observed = append(observed, w.StateOf(corpus))
	})

	require.NoError(t, w.DownloadQuran(context.Background()))
	assert.Equal(t,
		[]State{StateFetching, StateTransforming, StatePersisting, StateReady},
		observed)
}

func TestDownloadQuranRejectsMismatchedEditions(t *testing.T) {
	env := newTestEnv(t)
	mismatched := testEdition("tr", 3)
	mismatched.Data.Surahs[59].Ayahs = mismatched.Data.Surahs[59].Ayahs[:2]
	env.conf.Quran.TextURL = serveJSON(t, testEdition("ar", 3)).URL
	env.conf.Quran.TranslationURL = serveJSON(t, mismatched).URL

	w := NewWorkflow(env.conf, env.quran, env.hadiths, nil)
	err := w.DownloadQuran(context.Background())
	assert.ErrorIs(t, err, common.ErrDownloadFailed)
	assert.Equal(t, StateFailed, w.StateOf(CorpusQuran))

	exists, err := env.quran.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists, "no partial corpus may be persisted on failure")
}

func TestDownloadQuranSurfacesHTTPFailure(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	env.conf.Quran.TextURL = srv.URL
	env.conf.Quran.TranslationURL = srv.URL

	w := NewWorkflow(env.conf, env.quran, env.hadiths, nil)
	err := w.DownloadQuran(context.Background())
	assert.ErrorIs(t, err, common.ErrDownloadFailed)
}

func TestDownloadHadithPaging(t *testing.T) {
	env := newTestEnv(t)
	const total = 7277
	payload := hadithPayload{}
	for i := 1; i <= total; i++ {
		payload.Hadiths = append(payload.Hadiths, hadith.RawRecord{
			HadithNumber: json.Number(fmt.Sprintf("%d", i)),
			Text:         fmt.Sprintf("rivayet %d", i),
		})
	}
	env.conf.Hadith.URL = serveJSON(t, payload).URL

	w := NewWorkflow(env.conf, env.quran, env.hadiths, nil)
	require.NoError(t, w.DownloadHadith(context.Background()))
	assert.Equal(t, StateReady, w.StateOf(CorpusHadith))

	ctx := context.Background()
	page1, err := env.hadiths.GetPage(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page1, 50)

	// 7277 = 145*50 + 27
	page146, err := env.hadiths.GetPage(ctx, 146)
	require.NoError(t, err)
	assert.Len(t, page146, 27)

	page147, err := env.hadiths.GetPage(ctx, 147)
	require.NoError(t, err)
	assert.Empty(t, page147)
}

func TestDownloadHadithRejectsMissingArray(t *testing.T) {
	env := newTestEnv(t)
	env.conf.Hadith.URL = serveJSON(t, map[string]any{"unexpected": true}).URL

	w := NewWorkflow(env.conf, env.quran, env.hadiths, nil)
	err := w.DownloadHadith(context.Background())
	assert.ErrorIs(t, err, common.ErrDownloadFailed)
}

func TestConcurrentDownloadRejected(t *testing.T) {
	env := newTestEnv(t)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(hadithPayload{Hadiths: []hadith.RawRecord{
			{HadithNumber: "1", Text: "tek rivayet"},
		}})
	}))
	t.Cleanup(srv.Close)
	env.conf.Hadith.URL = srv.URL

	w := NewWorkflow(env.conf, env.quran, env.hadiths, nil)

	done := make(chan error, 1)
	go func() { done <- w.DownloadHadith(context.Background()) }()

	require.Eventually(t, func() bool {
		return w.StateOf(CorpusHadith) == StateFetching
	}, 2*time.Second, 10*time.Millisecond)

	err := w.DownloadHadith(context.Background())
	assert.ErrorIs(t, err, common.ErrDownloadInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateReady, w.StateOf(CorpusHadith))
}

func TestAbandonedFetchDoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	env.conf.Hadith.URL = srv.URL

	w := NewWorkflow(env.conf, env.quran, env.hadiths, nil)
	err := w.DownloadHadith(ctx)
	assert.ErrorIs(t, err, common.ErrDownloadFailed)

	exists, err := env.hadiths.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

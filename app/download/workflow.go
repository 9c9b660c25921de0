package download

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mucahitkurt/rahle/app/common"
	"github.com/mucahitkurt/rahle/app/config"
	"github.com/mucahitkurt/rahle/app/hadith"
	"github.com/mucahitkurt/rahle/app/quran"
)

type State string

const (
	StateEmpty        State = "empty"
	StateFetching     State = "fetching"
	StateTransforming State = "transforming"
	StatePersisting   State = "persisting"
	StateReady        State = "ready"
	StateFailed       State = "failed"
)

const (
	CorpusQuran  = "quran"
	CorpusHadith = "hadith"
)

// ProgressFunc receives staged checkpoints, not byte-level progress.
type ProgressFunc func(corpus string, state State)

// Workflow orchestrates first-run corpus acquisition: fetch, transform,
// persist in one transaction, then the repository's presence flag flips.
// Each corpus runs independently; a second download of the same corpus while
// one is in flight is rejected.
type Workflow struct {
	fetcher  *Fetcher
	quran    quran.Store
	hadiths  *hadith.Service
	conf     *config.RahleConfig
	progress ProgressFunc

	mu       sync.Mutex
	inFlight map[string]bool
	states   map[string]State
}

func NewWorkflow(conf *config.RahleConfig, quranStore quran.Store, hadithService *hadith.Service, progress ProgressFunc) *Workflow {
	return &Workflow{
		fetcher:  NewFetcher(time.Duration(conf.DownloadTimeoutSeconds) * time.Second),
		quran:    quranStore,
		hadiths:  hadithService,
		conf:     conf,
		progress: progress,
		inFlight: make(map[string]bool),
		states:   make(map[string]State),
	}
}

func (w *Workflow) begin(corpus string) error {
	w.mu.Lock()
	if w.inFlight[corpus] {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", common.ErrDownloadInProgress, corpus)
	}
	w.inFlight[corpus] = true
	w.states[corpus] = StateFetching
	w.mu.Unlock()
	w.notify(corpus, StateFetching)
	return nil
}

func (w *Workflow) finish(corpus string, err error) {
	s := StateReady
	if err != nil {
		s = StateFailed
	}
	w.mu.Lock()
	w.inFlight[corpus] = false
	w.states[corpus] = s
	w.mu.Unlock()
	w.notify(corpus, s)
}

func (w *Workflow) setState(corpus string, s State) {
	w.mu.Lock()
	w.states[corpus] = s
	w.mu.Unlock()
	w.notify(corpus, s)
}

// notify runs outside the state lock so a progress callback may call back
// into StateOf.
func (w *Workflow) notify(corpus string, s State) {
	if w.progress != nil {
		w.progress(corpus, s)
	}
}

// StateOf reports the last observed workflow state for a corpus; StateEmpty
// before any download was attempted in this process.
func (w *Workflow) StateOf(corpus string) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.states[corpus]; ok {
		return s
	}
	return StateEmpty
}

// DownloadQuran fetches both editions, zips them and persists the corpus.
// On any failure nothing is persisted and the error wraps ErrDownloadFailed.
func (w *Workflow) DownloadQuran(ctx context.Context) error {
	if err := w.begin(CorpusQuran); err != nil {
		return err
	}
	err := w.downloadQuran(ctx)
	w.finish(CorpusQuran, err)
	if err != nil {
		slog.Error("quran download failed", "err", err)
	}
	return err
}

func (w *Workflow) downloadQuran(ctx context.Context) error {
	text, err := w.fetcher.fetchQuranEdition(ctx, w.conf.Quran.TextURL)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDownloadFailed, err)
	}
	translation, err := w.fetcher.fetchQuranEdition(ctx, w.conf.Quran.TranslationURL)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDownloadFailed, err)
	}

	w.setState(CorpusQuran, StateTransforming)
	chapters, err := zipEditions(text, translation)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDownloadFailed, err)
	}

	// An abandoned fetch must never reach the store.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDownloadFailed, err)
	}
	w.setState(CorpusQuran, StatePersisting)
	if err := w.quran.SaveAll(ctx, chapters); err != nil {
		return fmt.Errorf("%w: persisting quran: %v", common.ErrDownloadFailed, err)
	}
	slog.Info("quran corpus persisted", "chapters", len(chapters))
	return nil
}

// DownloadHadith fetches and persists the hadith collection.
func (w *Workflow) DownloadHadith(ctx context.Context) error {
	if err := w.begin(CorpusHadith); err != nil {
		return err
	}
	err := w.downloadHadith(ctx)
	w.finish(CorpusHadith, err)
	if err != nil {
		slog.Error("hadith download failed", "err", err)
	}
	return err
}

func (w *Workflow) downloadHadith(ctx context.Context) error {
	raws, err := w.fetcher.fetchHadiths(ctx, w.conf.Hadith.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDownloadFailed, err)
	}

	w.setState(CorpusHadith, StateTransforming)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDownloadFailed, err)
	}
	w.setState(CorpusHadith, StatePersisting)
	if err := w.hadiths.SaveAll(ctx, raws); err != nil {
		return fmt.Errorf("%w: persisting hadiths: %v", common.ErrDownloadFailed, err)
	}
	slog.Info("hadith corpus persisted", "records", len(raws))
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/mucahitkurt/rahle/app/config"
	"github.com/mucahitkurt/rahle/app/dhikr"
	"github.com/mucahitkurt/rahle/app/docstore"
	"github.com/mucahitkurt/rahle/app/download"
	"github.com/mucahitkurt/rahle/app/hadith"
	"github.com/mucahitkurt/rahle/app/prayer"
	"github.com/mucahitkurt/rahle/app/quran"
	"github.com/mucahitkurt/rahle/app/reference"
	"github.com/mucahitkurt/rahle/app/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "download":
		runDownload()
	case "server":
		runServer()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: rahle <command> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  download      Fetch a corpus and populate the local store")
	fmt.Fprintln(os.Stderr, "  server        Start the rahle server")
}

type components struct {
	conf     *config.RahleConfig
	store    *docstore.Store
	quran    *quran.SQLiteStore
	hadiths  *hadith.Service
	dhikr    *dhikr.SQLiteStore
	workflow *download.Workflow
}

func buildComponents(dataDir string, progress download.ProgressFunc) (*components, error) {
	conf, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}

	store, err := docstore.Open(dataDir)
	if err != nil {
		return nil, err
	}

	quranStore := quran.NewSQLiteStore(store.DB())
	hadithStore := hadith.NewSQLiteStore(store.DB())

	var index *hadith.BleveIndex
	if conf.HadithSearchBackend == "bleve" {
		index, err = hadith.OpenBleveIndex(dataDir)
		if err != nil {
			store.Close()
			return nil, err
		}
	}
	hadithService := hadith.NewService(hadithStore, index)

	return &components{
		conf:     conf,
		store:    store,
		quran:    quranStore,
		hadiths:  hadithService,
		dhikr:    dhikr.NewSQLiteStore(store.DB()),
		workflow: download.NewWorkflow(conf, quranStore, hadithService, progress),
	}, nil
}

func runDownload() {
	flags := pflag.NewFlagSet("download", pflag.ExitOnError)
	var dataDir, corpus string
	flags.StringVarP(&dataDir, "data-dir", "d", "", "data directory for config.json and the database")
	flags.StringVarP(&corpus, "corpus", "c", "", "corpus to download: quran or hadith")

	flags.Parse(os.Args[2:])

	if dataDir == "" || corpus == "" {
		fmt.Fprintln(os.Stderr, "Error: --data-dir and --corpus are required")
		os.Exit(1)
	}

	progress := func(corpus string, state download.State) {
		slog.Info("download progress", "corpus", corpus, "state", state)
	}

	comps, err := buildComponents(dataDir, progress)
	if err != nil {
		slog.Error("error while initializing", "err", err)
		os.Exit(1)
	}
	defer comps.store.Close()

	ctx := context.Background()
	switch corpus {
	case download.CorpusQuran:
		err = comps.workflow.DownloadQuran(ctx)
	case download.CorpusHadith:
		err = comps.workflow.DownloadHadith(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown corpus: %s\n", corpus)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("download failed", "corpus", corpus, "err", err)
		os.Exit(1)
	}
	slog.Info("download complete", "corpus", corpus, "db", comps.store.Path())
}

func runServer() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	var serverConf config.ServerRuntimeConfig
	var dataDir string
	flags.StringVarP(&serverConf.Addr, "address", "a", "localhost", "Server address to bind")
	flags.IntVarP(&serverConf.Port, "port", "p", 8080, "Server port to bind")
	flags.StringVarP(&dataDir, "data-dir", "d", "",
		"data directory to read config.json and the database")
	flags.IntVar(&serverConf.RateLimit, "rate-limit", 0, "requests per second per client, 0 to disable")
	flags.IntVar(&serverConf.GzipLevel, "gzip-level", 0, "gzip compression level, 0 to disable")
	flags.BoolVar(&serverConf.BehindLoadBalancer, "behind-load-balancer", false,
		"trust X-Forwarded-For when identifying clients")

	flags.Parse(os.Args[2:])

	if dataDir == "" {
		slog.Error("--data-dir not provided, stopping")
		os.Exit(1)
	}

	progress := func(corpus string, state download.State) {
		slog.Info("download progress", "corpus", corpus, "state", state)
	}

	comps, err := buildComponents(dataDir, progress)
	if err != nil {
		slog.Error("error while initializing", "err", err)
		os.Exit(1)
	}
	defer comps.store.Close()

	var entries []reference.Entry
	if comps.conf.ReferenceFile != "" {
		entries, err = reference.LoadEntries(filepath.Join(dataDir, comps.conf.ReferenceFile))
		if err != nil {
			slog.Error("error while loading reference file", "err", err)
			os.Exit(1)
		}
	}

	prayerClient := prayer.NewClient(comps.conf.PrayerTimesURL,
		time.Duration(comps.conf.RequestTimeoutSeconds)*time.Second)

	controller := server.NewRahleController(
		comps.quran, comps.hadiths, comps.dhikr, comps.workflow, prayerClient, entries)

	fmt.Printf("Starting server on %s:%d\n", serverConf.Addr, serverConf.Port)
	server.StartServer(controller, comps.conf, serverConf)
}

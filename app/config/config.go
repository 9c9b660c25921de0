package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

type QuranSourceConfig struct {
	// Two editions of the same corpus, fetched independently and zipped
	// positionally: the original text and a translation.
	TextURL        string `json:"text_url" env:"RAHLE_QURAN_TEXT_URL" env-default:"https://api.alquran.cloud/v1/quran/quran-uthmani"`
	TranslationURL string `json:"translation_url" env:"RAHLE_QURAN_TRANSLATION_URL" env-default:"https://api.alquran.cloud/v1/quran/tr.diyanet"`
}

type HadithSourceConfig struct {
	URL string `json:"url" env:"RAHLE_HADITH_URL" env-default:"https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1/editions/tur-bukhari.json"`
}

// ServerRuntimeConfig carries flag-level server knobs, kept separate from the
// config file so deployments can differ per invocation.
type ServerRuntimeConfig struct {
	Addr               string
	Port               int
	RateLimit          int
	GzipLevel          int
	BehindLoadBalancer bool
}

type RahleConfig struct {
	InstanceName string `json:"instance_name" env:"RAHLE_INSTANCE_NAME" env-default:"rahle"`
	DataDir      string `json:"-"`

	Quran  QuranSourceConfig  `json:"quran"`
	Hadith HadithSourceConfig `json:"hadith"`

	// "sqlite" scans with Turkish folding, "bleve" uses the tokenized index.
	HadithSearchBackend string `json:"hadith_search_backend" env:"RAHLE_HADITH_SEARCH" env-default:"sqlite"`

	DownloadTimeoutSeconds int `json:"download_timeout_seconds" env:"RAHLE_DOWNLOAD_TIMEOUT_SECONDS" env-default:"120"`
	RequestTimeoutSeconds  int `json:"request_timeout_seconds" env:"RAHLE_REQUEST_TIMEOUT_SECONDS" env-default:"15"`

	PrayerTimesURL string `json:"prayer_times_url" env:"RAHLE_PRAYER_TIMES_URL" env-default:"https://api.aladhan.com/v1/timings"`

	// Optional reference content (duas, names) as a markdown file in DataDir.
	ReferenceFile string `json:"reference_file" env:"RAHLE_REFERENCE_FILE" env-default:""`

	LogLatency bool `json:"log_latency" env:"RAHLE_LOG_LATENCY" env-default:"false"`
}

// Load reads config.json from dataDir if present and applies environment
// overrides. A missing file is fine; defaults plus environment apply.
func Load(dataDir string) (*RahleConfig, error) {
	var conf RahleConfig
	confPath := filepath.Join(dataDir, "config.json")
	if _, err := os.Stat(confPath); err == nil {
		if err := cleanenv.ReadConfig(confPath, &conf); err != nil {
			return nil, fmt.Errorf("reading %s: %w", confPath, err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&conf); err != nil {
			return nil, fmt.Errorf("reading config from environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("checking %s: %w", confPath, err)
	}
	conf.DataDir = dataDir
	return &conf, nil
}

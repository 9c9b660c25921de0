package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mucahitkurt/rahle/app/common"
	"github.com/mucahitkurt/rahle/app/dhikr"
	"github.com/mucahitkurt/rahle/app/download"
	"github.com/mucahitkurt/rahle/app/hadith"
	"github.com/mucahitkurt/rahle/app/prayer"
	"github.com/mucahitkurt/rahle/app/quran"
	"github.com/mucahitkurt/rahle/app/reference"
	"github.com/mucahitkurt/rahle/app/zakat"
)

type RahleController struct {
	quran    quran.Store
	hadiths  *hadith.Service
	dhikr    *dhikr.SQLiteStore
	workflow *download.Workflow
	prayer   *prayer.Client
	entries  []reference.Entry
}

func NewRahleController(
	quranStore quran.Store,
	hadithService *hadith.Service,
	dhikrStore *dhikr.SQLiteStore,
	workflow *download.Workflow,
	prayerClient *prayer.Client,
	entries []reference.Entry,
) *RahleController {
	return &RahleController{
		quran:    quranStore,
		hadiths:  hadithService,
		dhikr:    dhikrStore,
		workflow: workflow,
		prayer:   prayerClient,
		entries:  entries,
	}
}

func (rc *RahleController) GetChapter(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return common.NewUserVisibleError(http.StatusBadRequest, "chapter id must be a number")
	}
	ch, err := rc.quran.GetChapter(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if ch == nil {
		return common.NewUserVisibleError(http.StatusNotFound, "chapter not available; download the corpus first")
	}
	return c.JSON(http.StatusOK, ch)
}

func (rc *RahleController) GetJuz(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return common.NewUserVisibleError(http.StatusBadRequest, "juz id must be a number")
	}
	sec, err := rc.quran.GetJuz(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if sec == nil {
		return common.NewUserVisibleError(http.StatusNotFound, "quran corpus not downloaded yet")
	}
	return c.JSON(http.StatusOK, sec)
}

func (rc *RahleController) GetHadithPage(c echo.Context) error {
	page := 1
	if p := c.QueryParam("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil || page < 1 {
			return common.NewUserVisibleError(http.StatusBadRequest, "page must be a positive number")
		}
	}
	records, err := rc.hadiths.GetPage(c.Request().Context(), page)
	if err != nil {
		return err
	}
	// An empty page past the end tells the pager to stop.
	return c.JSON(http.StatusOK, map[string]any{
		"page":    page,
		"records": records,
	})
}

func (rc *RahleController) SearchHadith(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return common.NewUserVisibleError(http.StatusBadRequest, "q parameter is required")
	}
	var records []hadith.Record
	var err error
	if c.QueryParam("regex") == "true" {
		records, err = rc.hadiths.SearchRegex(c.Request().Context(), q)
	} else {
		records, err = rc.hadiths.Search(c.Request().Context(), q)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":   q,
		"records": records,
	})
}

func (rc *RahleController) TriggerDownload(c echo.Context) error {
	var err error
	corpus := c.Param("corpus")
	switch corpus {
	case download.CorpusQuran:
		err = rc.workflow.DownloadQuran(c.Request().Context())
	case download.CorpusHadith:
		err = rc.workflow.DownloadHadith(c.Request().Context())
	default:
		return common.NewUserVisibleError(http.StatusBadRequest, "unknown corpus: "+corpus)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"corpus": corpus,
		"state":  rc.workflow.StateOf(corpus),
	})
}

func (rc *RahleController) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()
	quranExists, err := rc.quran.Exists(ctx)
	if err != nil {
		return err
	}
	hadithExists, err := rc.hadiths.Exists(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"quran":  map[string]any{"exists": quranExists, "state": rc.workflow.StateOf(download.CorpusQuran)},
		"hadith": map[string]any{"exists": hadithExists, "state": rc.workflow.StateOf(download.CorpusHadith)},
	})
}

func (rc *RahleController) GetDhikr(c echo.Context) error {
	counter, err := rc.dhikr.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counter)
}

func (rc *RahleController) IncrementDhikr(c echo.Context) error {
	counter, err := rc.dhikr.Increment(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counter)
}

func (rc *RahleController) ResetDhikr(c echo.Context) error {
	if err := rc.dhikr.Reset(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (rc *RahleController) GetQibla(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if errLat != nil || errLon != nil {
		return common.NewUserVisibleError(http.StatusBadRequest, "lat and lon are required numbers")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"bearing":     prayer.QiblaBearing(lat, lon),
		"distance_km": prayer.DistanceToKaabaKm(lat, lon),
	})
}

func (rc *RahleController) GetZakat(c echo.Context) error {
	wealth, errW := strconv.ParseFloat(c.QueryParam("wealth"), 64)
	goldPrice, errG := strconv.ParseFloat(c.QueryParam("gold_gram_price"), 64)
	if errW != nil || errG != nil {
		return common.NewUserVisibleError(http.StatusBadRequest, "wealth and gold_gram_price are required numbers")
	}
	nisab := zakat.NisabGold(goldPrice)
	return c.JSON(http.StatusOK, map[string]any{
		"nisab": nisab,
		"due":   zakat.Due(wealth, nisab),
	})
}

func (rc *RahleController) GetPrayerTimes(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if errLat != nil || errLon != nil {
		return common.NewUserVisibleError(http.StatusBadRequest, "lat and lon are required numbers")
	}
	day := time.Now()
	if d := c.QueryParam("date"); d != "" {
		var err error
		day, err = time.Parse("2006-01-02", d)
		if err != nil {
			return common.NewUserVisibleError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}
	times, err := rc.prayer.TimesFor(c.Request().Context(), day, lat, lon)
	if err != nil {
		return common.WrapErrorForResponse(err, "could not fetch prayer times")
	}
	return c.JSON(http.StatusOK, times)
}

func (rc *RahleController) GetReference(c echo.Context) error {
	return c.JSON(http.StatusOK, rc.entries)
}

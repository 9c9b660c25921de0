package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/mucahitkurt/rahle/app/common"
	"github.com/mucahitkurt/rahle/app/config"
)

// statusFor maps domain sentinel errors onto HTTP status codes. Anything
// unrecognized stays a 500 so internals are not leaked to the client.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, common.ErrInvalidJuz):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, common.ErrDownloadInProgress):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, common.ErrDownloadFailed):
		return http.StatusBadGateway, err.Error(), true
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, err.Error(), true
	}
	return 0, "", false
}

func StartServer(controller *RahleController, rahleConf *config.RahleConfig, serverConf config.ServerRuntimeConfig) {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprintf("%v", he.Message)
			}
		}

		if sc, smsg, ok := statusFor(err); ok {
			code = sc
			msg = smsg
		}

		var uve *common.UserVisibleError
		if errors.As(err, &uve) {
			code = uve.HttpCode
			msg = uve.Error()
		}

		c.Logger().Error(err)

		if !c.Response().Committed {
			if jsonErr := c.JSON(code, map[string]string{"error": msg}); jsonErr != nil {
				c.Logger().Error(jsonErr)
			}
		}
	}
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	var identifierExtractor middleware.Extractor

	if serverConf.BehindLoadBalancer {
		identifierExtractor = func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		}
	} else {
		identifierExtractor = func(ctx echo.Context) (string, error) {
			id := ctx.Request().RemoteAddr
			return id, nil
		}
	}

	// configure rate limiting if enabled
	if serverConf.RateLimit > 0 {
		config := middleware.RateLimiterConfig{
			Skipper: middleware.DefaultSkipper,
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(serverConf.RateLimit),
					Burst:     3 * serverConf.RateLimit,
					ExpiresIn: 3 * time.Minute,
				},
			),
			IdentifierExtractor: identifierExtractor,
			ErrorHandler: func(context echo.Context, err error) error {
				return context.String(http.StatusForbidden, "Forbidden")
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.String(http.StatusTooManyRequests, "Too Many Requests")
			},
		}

		e.Use(middleware.RateLimiterWithConfig(config))
	}

	if serverConf.GzipLevel != 0 {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: serverConf.GzipLevel, MinLength: 512}))
	}

	if rahleConf.RequestTimeoutSeconds != 0 {
		e.Use(middleware.ContextTimeout(time.Duration(rahleConf.RequestTimeoutSeconds) * time.Second))
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogRemoteIP: true,
		LogLatency:  rahleConf.LogLatency,
		HandleError: true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
					slog.String("remote_ip", v.RemoteIP),
				)
			} else {
				logger.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
					slog.String("remote_ip", v.RemoteIP),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
				)
			}
			return nil
		},
	}))

	e.GET("/api/chapters/:id", controller.GetChapter)
	e.GET("/api/juz/:id", controller.GetJuz)
	e.GET("/api/hadiths", controller.GetHadithPage)
	e.GET("/api/hadiths/search", controller.SearchHadith)
	e.POST("/api/download/:corpus", controller.TriggerDownload)
	e.GET("/api/status", controller.GetStatus)
	e.GET("/api/dhikr/:name", controller.GetDhikr)
	e.POST("/api/dhikr/:name/increment", controller.IncrementDhikr)
	e.POST("/api/dhikr/:name/reset", controller.ResetDhikr)
	e.GET("/api/qibla", controller.GetQibla)
	e.GET("/api/zakat", controller.GetZakat)
	e.GET("/api/prayer-times", controller.GetPrayerTimes)
	e.GET("/api/reference", controller.GetReference)

	addr := fmt.Sprintf("%s:%d", serverConf.Addr, serverConf.Port)
	e.Logger.Fatal(e.Start(addr))
}

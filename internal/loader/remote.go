package loader

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultHTTPTimeout = 10 * time.Second

// IsRemote reports whether a holiday source is an http(s) URL
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// FetchHolidays downloads a holiday calendar. The format comes from the
// response content type, then from the URL path extension.
func (l *Loader) FetchHolidays(ctx context.Context, source string) (*HolidaySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("holiday source returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	format, err := remoteFormat(resp.Header.Get("Content-Type"), source)
	if err != nil {
		return nil, err
	}

	set, err := l.ReadHolidays(resp.Body, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays from %s: %w", source, err)
	}

	l.logger.Info("Successfully fetched holiday data",
		zap.String("url", source),
		zap.String("format", string(format)),
		zap.Int("holidays", len(set.Records)),
		zap.Int("skipped", len(set.Skipped)))

	return set, nil
}

// LoadHolidaysWithFallback loads the primary holiday source (file or URL)
// and falls back to the secondary one when the primary fails.
func (l *Loader) LoadHolidaysWithFallback(ctx context.Context, primary, fallback string) (*HolidaySet, error) {
	set, err := l.loadHolidaySource(ctx, primary)
	if err == nil || fallback == "" {
		return set, err
	}

	l.logger.Warn("Failed to load holidays, trying fallback",
		zap.String("source", primary),
		zap.String("fallback", fallback),
		zap.Error(err))

	set, fallbackErr := l.loadHolidaySource(ctx, fallback)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}

	l.logger.Info("Using fallback holiday data", zap.String("fallback", fallback))

	return set, nil
}

func (l *Loader) loadHolidaySource(ctx context.Context, source string) (*HolidaySet, error) {
	if IsRemote(source) {
		return l.FetchHolidays(ctx, source)
	}
	return l.LoadHolidays(source)
}

func remoteFormat(contentType, source string) (Format, error) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/csv", "application/csv":
			return FormatCSV, nil
		case "application/json":
			return FormatJSON, nil
		}
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("invalid holiday url: %w", err)
	}

	return DetectFormat(path.Base(u.Path))
}

// Package imdb implements the scrape adapter against IMDB pages. Pages
// embed a __NEXT_DATA__ JSON blob which is the primary extraction path;
// plain HTML parsing is the fallback when the blob is missing or
// malformed.
package imdb

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// Config controls collector behavior.
type Config struct {
	// BaseURL lets tests point the adapter at a local server.
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Adapter fetches and parses IMDB pages. One request is in flight at a
// time; pacing between requests is the caller's concern.
type Adapter struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds an Adapter.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.imdb.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	// Synchronous is the collector default; colly v2.1.0's Async option
	// ignores its argument and would always enable async mode.
	c := colly.NewCollector()
	c.IgnoreRobotsTxt = true // pacing is enforced by the crawl driver's delays
	c.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.WithTransport(newHTTPTransport())

	return &Adapter{
		cfg:           cfg,
		baseCollector: c,
	}
}

// fetchDocument executes a single GET and parses the body into a goquery
// document. The collector is cloned per call so callbacks never leak
// between requests.
func (a *Adapter) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	collector := a.baseCollector.Clone()
	collector.SetRequestTimeout(a.cfg.Timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", url, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, fetchErr)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func (a *Adapter) titleURL(showID string) string {
	return fmt.Sprintf("%s/title/%s/", a.cfg.BaseURL, showID)
}

func (a *Adapter) fullCreditsURL(showID string) string {
	return fmt.Sprintf("%s/title/%s/fullcredits/", a.cfg.BaseURL, showID)
}

func (a *Adapter) nameURL(writerID string) string {
	return fmt.Sprintf("%s/name/%s/", a.cfg.BaseURL, writerID)
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

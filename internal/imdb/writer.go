package imdb

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
)

var titleHrefRe = regexp.MustCompile(`/title/(tt\d+)`)

// FetchWriterFilmography loads a writer's name page and returns the TV
// series they hold writing credits on. A page that yields no parseable
// credits produces an empty slice, not an error.
func (a *Adapter) FetchWriterFilmography(ctx context.Context, writerID string) ([]crawler.ShowRef, error) {
	doc, err := a.fetchDocument(ctx, a.nameURL(writerID))
	if err != nil {
		return nil, err
	}

	if nd, ok := parseNextData(doc); ok {
		if shows := seriesFromNextData(nd); len(shows) > 0 {
			return shows, nil
		}
	}
	return seriesFromHTML(doc), nil
}

func seriesFromNextData(nd *nextData) []crawler.ShowRef {
	seen := make(map[string]struct{})
	var out []crawler.ShowRef
	for _, cat := range nd.Props.PageProps.MainColumnData.Credits.Edges {
		if !writingCategory(cat.Node.Category.Text) {
			continue
		}
		for _, edge := range cat.Node.Credits.Edges {
			title := edge.Node.Title
			if title.ID == "" || !isSeriesType(title.TitleType.ID) {
				continue
			}
			if _, dup := seen[title.ID]; dup {
				continue
			}
			seen[title.ID] = struct{}{}
			out = append(out, crawler.ShowRef{
				IMDBID:    title.ID,
				Title:     strings.TrimSpace(title.TitleText.Text),
				YearStart: title.ReleaseYear.Year,
				YearEnd:   title.ReleaseYear.EndYear,
			})
		}
	}
	return out
}

// seriesFromHTML scans title links whose surrounding row mentions a TV
// series type. Used when the embedded state blob is absent.
func seriesFromHTML(doc *goquery.Document) []crawler.ShowRef {
	seen := make(map[string]struct{})
	var out []crawler.ShowRef
	doc.Find(`a[href*="/title/tt"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := titleHrefRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}
		rowText := link.Parent().Parent().Text()
		if !strings.Contains(rowText, "TV Series") && !strings.Contains(rowText, "TV Mini") {
			return
		}
		if _, dup := seen[m[1]]; dup {
			return
		}
		seen[m[1]] = struct{}{}
		out = append(out, crawler.ShowRef{IMDBID: m[1], Title: title})
	})
	return out
}

// FetchWriterDetails loads a writer's name page and extracts their
// headshot URL and short bio. Missing fields come back empty.
func (a *Adapter) FetchWriterDetails(ctx context.Context, writerID string) (imageURL, bio string, err error) {
	doc, err := a.fetchDocument(ctx, a.nameURL(writerID))
	if err != nil {
		return "", "", err
	}

	if nd, ok := parseNextData(doc); ok {
		fold := nd.Props.PageProps.fold()
		imageURL = fold.PrimaryImage.URL
		bio = strings.TrimSpace(fold.Bio.Text.PlainText)
	}

	if imageURL == "" {
		imageURL, _ = doc.Find("img.ipc-image").First().Attr("src")
	}
	if bio == "" {
		bio = strings.TrimSpace(doc.Find(`[data-testid="mini-bio"]`).First().Text())
	}
	return imageURL, bio, nil
}

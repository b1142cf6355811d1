package imdb

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
)

var (
	nameHrefRe     = regexp.MustCompile(`/name/(nm\d+)`)
	episodeCountRe = regexp.MustCompile(`(\d+)\s+episodes?`)
	parenRe        = regexp.MustCompile(`\(([^)]*)\)`)
	titleYearsRe   = regexp.MustCompile(`(\d{4})(?:\s*[–-]\s*(\d{4})?)?\s*\)`)
)

// FetchShowDetail loads a show's main title page and extracts its title
// and run years.
func (a *Adapter) FetchShowDetail(ctx context.Context, showID string) (crawler.ShowRef, error) {
	doc, err := a.fetchDocument(ctx, a.titleURL(showID))
	if err != nil {
		return crawler.ShowRef{}, err
	}

	ref := crawler.ShowRef{IMDBID: showID}

	if nd, ok := parseNextData(doc); ok {
		fold := nd.Props.PageProps.fold()
		ref.Title = strings.TrimSpace(fold.TitleText.Text)
		ref.YearStart = fold.ReleaseYear.Year
		ref.YearEnd = fold.ReleaseYear.EndYear
	}

	if ref.Title == "" {
		ref.Title, ref.YearStart, ref.YearEnd = showDetailFromHTML(doc)
	}
	if ref.Title == "" {
		return crawler.ShowRef{}, fmt.Errorf("show %s: title not found in page", showID)
	}
	return ref, nil
}

// showDetailFromHTML recovers title and years from the <title> element,
// e.g. "The Wire (TV Series 2002–2008) - IMDb".
func showDetailFromHTML(doc *goquery.Document) (string, *int, *int) {
	raw := strings.TrimSpace(doc.Find("title").First().Text())
	raw = strings.TrimSuffix(raw, " - IMDb")
	if raw == "" {
		return "", nil, nil
	}

	var yearStart, yearEnd *int
	if m := titleYearsRe.FindStringSubmatch(raw); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			yearStart = &y
		}
		if m[2] != "" {
			if y, err := strconv.Atoi(m[2]); err == nil {
				yearEnd = &y
			}
		}
	}

	title := raw
	if i := strings.Index(title, " ("); i > 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title), yearStart, yearEnd
}

// FetchShowWriters loads a show's full credits page and returns its
// writing credits. Every writer listed on the page is returned; episode
// thresholds are applied by the caller.
func (a *Adapter) FetchShowWriters(ctx context.Context, showID string) ([]crawler.WriterCredit, error) {
	doc, err := a.fetchDocument(ctx, a.fullCreditsURL(showID))
	if err != nil {
		return nil, err
	}

	if nd, ok := parseNextData(doc); ok {
		if credits := writersFromNextData(nd); len(credits) > 0 {
			return credits, nil
		}
	}
	return writersFromHTML(doc), nil
}

func writersFromNextData(nd *nextData) []crawler.WriterCredit {
	var out []crawler.WriterCredit
	for _, cat := range nd.Props.PageProps.MainColumnData.Credits.Edges {
		if !writingCategory(cat.Node.Category.Text) {
			continue
		}
		for _, edge := range cat.Node.Credits.Edges {
			node := edge.Node
			if node.Name.ID == "" || node.Name.NameText.Text == "" {
				continue
			}
			credit := crawler.WriterCredit{
				IMDBID:       node.Name.ID,
				Name:         strings.TrimSpace(node.Name.NameText.Text),
				Role:         creditRole(node.Attributes),
				EpisodeCount: node.EpisodeCredits.Total,
			}
			out = append(out, credit)
		}
	}
	return out
}

func creditRole(attrs []textValue) string {
	for _, attr := range attrs {
		role := strings.TrimSpace(attr.Text)
		if role != "" && !episodeCountRe.MatchString(role) {
			return role
		}
	}
	return ""
}

// writersFromHTML parses the legacy fullcredits table layout: an
// <h4 id="writer"> heading followed by a credits table whose rows hold a
// name link and a credit cell like "(created by) (62 episodes)".
func writersFromHTML(doc *goquery.Document) []crawler.WriterCredit {
	var out []crawler.WriterCredit
	table := doc.Find("h4#writer").First().NextAllFiltered("table").First()
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href*="/name/"]`).First()
		href, _ := link.Attr("href")
		m := nameHrefRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}

		creditText := strings.TrimSpace(row.Find("td.credit").First().Text())
		credit := crawler.WriterCredit{
			IMDBID: m[1],
			Name:   name,
			Role:   roleFromCreditText(creditText),
		}
		if em := episodeCountRe.FindStringSubmatch(creditText); em != nil {
			if n, err := strconv.Atoi(em[1]); err == nil {
				credit.EpisodeCount = &n
			}
		}
		out = append(out, credit)
	})
	return out
}

func roleFromCreditText(text string) string {
	for _, m := range parenRe.FindAllStringSubmatch(text, -1) {
		inner := strings.TrimSpace(m[1])
		if inner == "" || episodeCountRe.MatchString(inner) {
			continue
		}
		return inner
	}
	return ""
}

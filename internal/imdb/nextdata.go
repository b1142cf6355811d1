package imdb

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Modern IMDB pages are Next.js apps; the server-rendered state lives in
// a <script id="__NEXT_DATA__"> element. Only the fields the adapter
// reads are modeled here.

type nextData struct {
	Props struct {
		PageProps pageProps `json:"pageProps"`
	} `json:"props"`
}

type pageProps struct {
	AboveTheFold     aboveTheFold   `json:"aboveTheFold"`
	AboveTheFoldData aboveTheFold   `json:"aboveTheFoldData"`
	MainColumnData   mainColumnData `json:"mainColumnData"`
}

type aboveTheFold struct {
	TitleText    textValue `json:"titleText"`
	NameText     textValue `json:"nameText"`
	ReleaseYear  yearRange `json:"releaseYear"`
	PrimaryImage struct {
		URL string `json:"url"`
	} `json:"primaryImage"`
	Bio struct {
		Text struct {
			PlainText string `json:"plainText"`
		} `json:"text"`
	} `json:"bio"`
}

type mainColumnData struct {
	Credits creditCategories `json:"credits"`
}

type creditCategories struct {
	Edges []struct {
		Node categoryNode `json:"node"`
	} `json:"edges"`
}

type categoryNode struct {
	Category textValue `json:"category"`
	Credits  struct {
		Edges []struct {
			Node creditNode `json:"node"`
		} `json:"edges"`
	} `json:"credits"`
}

type creditNode struct {
	Name           nameNode    `json:"name"`
	Title          titleNode   `json:"title"`
	Attributes     []textValue `json:"attributes"`
	EpisodeCredits struct {
		Total *int `json:"total"`
	} `json:"episodeCredits"`
}

type nameNode struct {
	ID       string    `json:"id"`
	NameText textValue `json:"nameText"`
}

type titleNode struct {
	ID        string    `json:"id"`
	TitleText textValue `json:"titleText"`
	TitleType struct {
		ID string `json:"id"`
	} `json:"titleType"`
	ReleaseYear yearRange `json:"releaseYear"`
}

type yearRange struct {
	Year    *int `json:"year"`
	EndYear *int `json:"endYear"`
}

type textValue struct {
	Text string `json:"text"`
}

// parseNextData extracts and decodes the embedded state blob. A missing
// or undecodable blob is reported via ok=false so callers can fall back
// to plain HTML parsing.
func parseNextData(doc *goquery.Document) (*nextData, bool) {
	raw := doc.Find(`script#__NEXT_DATA__`).First().Text()
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var nd nextData
	if err := json.Unmarshal([]byte(raw), &nd); err != nil {
		return nil, false
	}
	return &nd, true
}

// fold returns whichever above-the-fold payload the page populated.
func (p pageProps) fold() aboveTheFold {
	if p.AboveTheFoldData.TitleText.Text != "" ||
		p.AboveTheFoldData.NameText.Text != "" ||
		p.AboveTheFoldData.PrimaryImage.URL != "" {
		return p.AboveTheFoldData
	}
	return p.AboveTheFold
}

// writingCategory reports whether a credit category holds writing
// credits ("Writers", "writer", "Writing Credits").
func writingCategory(name string) bool {
	return strings.Contains(strings.ToLower(name), "writ")
}

func isSeriesType(typeID string) bool {
	switch typeID {
	case "tvSeries", "tvMiniSeries":
		return true
	}
	return false
}

package youtube

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tunegrab/internal/httputil"
	"tunegrab/internal/media"
)

const searchBase = "https://www.youtube.com/results?search_query="

// Searcher issues one-result search queries against the results page and
// maps the embedded ytInitialData payload into a metadata bundle.
type Searcher struct {
	client *http.Client
}

// NewSearcher creates a searcher with the hardened HTTP client.
func NewSearcher() *Searcher {
	return &Searcher{client: httputil.NewClient()}
}

// Search runs one query and returns the first video result, or an error when
// the page yields none.
func (s *Searcher) Search(query string) (*media.Track, error) {
	body, err := httputil.Get(s.client, searchBase+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	track, err := parseSearchPage(doc)
	if err != nil {
		return nil, fmt.Errorf("no result for %q: %w", query, err)
	}
	return track, nil
}

// initialData mirrors the slice of the ytInitialData payload we read. Any
// shape drift decodes to nil renderers and surfaces as "no video result".
type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type videoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
	LengthText *struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
}

// parseSearchPage locates the ytInitialData script in a results document and
// maps the first video renderer into a track.
func parseSearchPage(doc *goquery.Document) (*media.Track, error) {
	var raw string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if idx := strings.Index(text, "ytInitialData"); idx >= 0 {
			if start := strings.Index(text[idx:], "{"); start >= 0 {
				if end := strings.LastIndex(text, "}"); end > idx+start {
					raw = text[idx+start : end+1]
					return false
				}
			}
		}
		return true
	})
	if raw == "" {
		return nil, fmt.Errorf("results page carries no ytInitialData")
	}

	var data initialData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding ytInitialData: %w", err)
	}

	for _, section := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		for _, item := range section.ItemSectionRenderer.Contents {
			if item.VideoRenderer == nil || item.VideoRenderer.VideoID == "" {
				continue
			}
			return trackFromRenderer(item.VideoRenderer), nil
		}
	}
	return nil, fmt.Errorf("no video result in payload")
}

func trackFromRenderer(r *videoRenderer) *media.Track {
	var title strings.Builder
	for _, run := range r.Title.Runs {
		title.WriteString(run.Text)
	}

	duration := ""
	if r.LengthText != nil {
		duration = r.LengthText.SimpleText
	}

	thumb := ""
	if len(r.Thumbnail.Thumbnails) > 0 {
		thumb = r.Thumbnail.Thumbnails[0].URL
		// Strip the size/signature query string; the bare URL stays valid.
		if i := strings.Index(thumb, "?"); i >= 0 {
			thumb = thumb[:i]
		}
	}

	return &media.Track{
		ID:        r.VideoID,
		Title:     title.String(),
		Duration:  duration,
		Seconds:   media.ParseDuration(duration),
		Thumbnail: thumb,
		Link:      watchBase + r.VideoID,
	}
}

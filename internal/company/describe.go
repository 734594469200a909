package company

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// MaxDescription is the size of the description column, in characters.
const MaxDescription = 255

// DescriptionFromHTML picks a summary out of a company home page: the meta
// description, then og:description, then the page title.
func DescriptionFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", errors.Wrap(err, "unable to parse html")
	}
	description := ""
	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "description") {
			return true
		}
		description, _ = s.Attr("content")
		description = strings.TrimSpace(description)
		return description == ""
	})
	if description == "" {
		doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
			prop, _ := s.Attr("property")
			if !strings.EqualFold(prop, "og:description") {
				return true
			}
			description, _ = s.Attr("content")
			description = strings.TrimSpace(description)
			return description == ""
		})
	}
	if description == "" {
		description = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return truncate(description, MaxDescription), nil
}

// FetchDescription downloads the website of c and extracts its summary.
func FetchDescription(ctx context.Context, client *http.Client, c Company) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Website, nil)
	if err != nil {
		return "", errors.Wrapf(err, "unable to build request for %s", c.Website)
	}
	res, err := client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "GET %s", c.Website)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", errors.Errorf("GET %s: status code error: %d %s", c.Website, res.StatusCode, res.Status)
	}
	return DescriptionFromHTML(res.Body)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

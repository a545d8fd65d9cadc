package websearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	duckDuckGoDefaultURL = "https://html.duckduckgo.com/html/"
	duckDuckGoUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
)

func (s *Service) searchDuckDuckGo(ctx context.Context, query string) ([]Result, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", duckDuckGoUserAgent).
		SetQueryParam("q", query).
		Get(s.duckDuckGoURL)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return parseDuckDuckGoHTML(resp.Body())
}

// parseDuckDuckGoHTML extracts result blocks from the HTML result page. The
// page marks result links with class "result__a" and snippets with
// "result__snippet"; links and snippets are paired by document order.
func parseDuckDuckGoHTML(page []byte) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	var links []Result
	var snippets []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				title := strings.TrimSpace(nodeText(n))
				link := unwrapRedirect(attr(n, "href"))
				if title != "" && link != "" {
					links = append(links, Result{Title: title, URL: link})
				}
			case hasClass(n, "result__snippet"):
				snippets = append(snippets, strings.TrimSpace(nodeText(n)))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(links) > maxResults {
		links = links[:maxResults]
	}

	for i := range links {
		if i < len(snippets) && snippets[i] != "" {
			links[i].Content = snippets[i]
		} else {
			links[i].Content = "No description available"
		}
	}

	return links, nil
}

// unwrapRedirect recovers the destination URL from DuckDuckGo's redirect
// wrapper, which carries the canonical link in the uddg query parameter.
func unwrapRedirect(raw string) string {
	if !strings.Contains(raw, "uddg=") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if dest := u.Query().Get("uddg"); dest != "" {
		return dest
	}

	return raw
}

func hasClass(n *html.Node, class string) bool {
	for _, part := range strings.Fields(attr(n, "class")) {
		if part == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

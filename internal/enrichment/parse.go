package enrichment

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseProduct extracts product data from an HTML document. JSON-LD Product
// blocks take precedence over meta tags, which take precedence over <title>.
func ParseProduct(r io.Reader, base *url.URL) (*Product, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		title string
		meta  = map[string]string{}
		ld    []map[string]any
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case atom.Meta:
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				if content := strings.TrimSpace(attr(n, "content")); key != "" && content != "" {
					if _, seen := meta[key]; !seen {
						meta[key] = content
					}
				}
			case atom.Script:
				if strings.EqualFold(attr(n, "type"), "application/ld+json") && n.FirstChild != nil {
					ld = append(ld, jsonLDProducts(n.FirstChild.Data)...)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p := &Product{URL: base.String()}
	p.Title = first(meta["og:title"], meta["twitter:title"], title)
	p.Description = first(meta["og:description"], meta["description"])
	p.ImageURL = first(meta["og:image"], meta["og:image:url"], meta["twitter:image"])
	p.SiteName = meta["og:site_name"]
	p.Brand = first(meta["product:brand"], meta["og:brand"])
	p.Category = first(meta["product:category"], meta["og:category"])
	p.Color = first(meta["product:color"], meta["og:color"])
	p.Currency = first(meta["product:price:currency"], meta["og:price:currency"])
	if price, ok := parsePrice(first(meta["product:price:amount"], meta["og:price:amount"])); ok {
		p.Price = &price
	}

	if len(ld) > 0 {
		applyJSONLD(p, ld[0])
	}

	p.ImageURL = resolve(base, p.ImageURL)
	p.Currency = strings.ToUpper(p.Currency)
	return p, nil
}

func applyJSONLD(p *Product, obj map[string]any) {
	if v := str(obj["name"]); v != "" {
		p.Title = v
	}
	if v := str(obj["description"]); v != "" {
		p.Description = v
	}
	if v := nameOf(obj["brand"]); v != "" {
		p.Brand = v
	}
	if v := imageOf(obj["image"]); v != "" {
		p.ImageURL = v
	}
	if v := str(obj["category"]); v != "" {
		p.Category = v
	}
	if v := str(obj["color"]); v != "" {
		p.Color = v
	}

	offers := obj["offers"]
	if list, ok := offers.([]any); ok && len(list) > 0 {
		offers = list[0]
	}
	if offer, ok := offers.(map[string]any); ok {
		price := offer["price"]
		if price == nil {
			price = offer["lowPrice"]
		}
		if v, ok := parsePrice(scalar(price)); ok {
			p.Price = &v
		}
		if v := str(offer["priceCurrency"]); v != "" {
			p.Currency = v
		}
	}
}

// jsonLDProducts returns every object typed Product in a JSON-LD payload,
// looking through top-level arrays and @graph.
func jsonLDProducts(raw string) []map[string]any {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return nil
	}

	var out []map[string]any
	var visit func(v any)
	visit = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				visit(item)
			}
		case map[string]any:
			if isProductType(t["@type"]) {
				out = append(out, t)
			}
			if g, ok := t["@graph"]; ok {
				visit(g)
			}
		}
	}
	visit(v)
	return out
}

func isProductType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "Product") || strings.EqualFold(t, "ProductGroup")
	case []any:
		for _, item := range t {
			if isProductType(item) {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func nameOf(v any) string {
	if m, ok := v.(map[string]any); ok {
		return str(m["name"])
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		return nameOf(list[0])
	}
	return str(v)
}

func imageOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		if len(t) > 0 {
			return imageOf(t[0])
		}
	case map[string]any:
		return first(str(t["url"]), str(t["contentUrl"]))
	}
	return ""
}

// parsePrice accepts "1,299.00", "49.9" and similar; currency symbols and
// spaces are ignored.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

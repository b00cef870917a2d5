package analyzer

import (
	"strings"

	"github.com/seo-optimizer/inspector/document"
)

// Hydration and state markers left in server-rendered markup.
var ssrMarkers = []string{
	"__NEXT_DATA__",        // Next.js
	"__NUXT__",             // Nuxt
	"data-server-rendered", // Vue SSR
	"__INITIAL_STATE__",    // inline store snapshot
}

func detectSSR(doc document.Document, markup string) bool {
	if len(doc.Find(`script[type="application/ld+json"]`)) > 0 {
		return true
	}
	if len(doc.Find(`meta[name="generator"]`)) > 0 {
		return true
	}
	for _, m := range ssrMarkers {
		if strings.Contains(markup, m) {
			return true
		}
	}
	return false
}

var (
	analyticsGlobals = []string{"gtag(", "GoogleAnalyticsObject", "_gaq", "dataLayer"}
	analyticsScripts = []string{
		"google-analytics.com/analytics.js",
		"google-analytics.com/ga.js",
		"googletagmanager.com/gtag/js",
		"googletagmanager.com/gtm.js",
	}

	adsenseGlobals = []string{"adsbygoogle"}
	adsenseScripts = []string{
		"pagead2.googlesyndication.com",
		"googleads.g.doubleclick.net",
		"adservice.google.com",
	}
)

// detectVendor looks for a vendor's globals in inline scripts and its
// script URLs in script src attributes.
func detectVendor(doc document.Document, markup string, globals, scripts []string) bool {
	for _, el := range doc.Find("script") {
		if src, ok := el.Attr("src"); ok {
			for _, frag := range scripts {
				if strings.Contains(src, frag) {
					return true
				}
			}
			continue
		}
		body := el.Text()
		for _, g := range globals {
			if strings.Contains(body, g) {
				return true
			}
		}
	}
	for _, frag := range scripts {
		if strings.Contains(markup, frag) {
			return true
		}
	}
	return false
}

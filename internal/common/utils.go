package common

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, surrounding quotes/brackets, trailing punctuation and
// unwraps markdown links. A trailing slash is kept.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [123 Fake St](https://www.zillow.com/...) -> https://www.zillow.com/...
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	cleaned = strings.TrimRight(cleaned, ",.;)}]\"'>")
	cleaned = strings.TrimLeft(cleaned, "([<\"'")

	return strings.TrimSpace(cleaned)
}

// CollectURLs flattens comma-separated flag values and positional arguments
// into one list of sanitized URLs, dropping empties and keeping order.
func CollectURLs(groups ...[]string) []string {
	var urls []string
	for _, group := range groups {
		for _, value := range group {
			for _, part := range strings.Split(value, ",") {
				if cleaned := SanitizeURL(part); cleaned != "" {
					urls = append(urls, cleaned)
				}
			}
		}
	}
	return urls
}

// Package listing turns Zillow listing URLs into stable, filesystem-safe
// folder names.
//
// A listing URL looks like
//
//	https://www.zillow.com/homedetails/{street address}/{zpid}_zpid/
//
// where the street address is hyphenated (street-city-state-zip) and zpid is
// Zillow's numeric property id.
package listing

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// addressPattern matches the address and zpid segments of a listing path.
var addressPattern = regexp.MustCompile(`homedetails/([^/]+)/(\d+)_zpid`)

// invalidFolderChar matches runs of characters not allowed in a folder name.
var invalidFolderChar = regexp.MustCompile(`[^a-zA-Z0-9._\-]+`)

// URL is a parsed listing URL.
type URL struct {
	Raw     string
	Address string // hyphenated street address, as it appears in the path
	ZPID    int64
}

// MalformedURLError is returned when a URL has no recognizable address segment.
type MalformedURLError struct {
	URL    string
	Reason string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed listing URL '%s': %s", e.URL, e.Reason)
}

// Parse validates rawURL and extracts its address and zpid.
func Parse(rawURL string) (URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return URL{}, &MalformedURLError{URL: rawURL, Reason: err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return URL{}, &MalformedURLError{URL: rawURL, Reason: "scheme must be http or https"}
	}
	if parsed.Host == "" {
		return URL{}, &MalformedURLError{URL: rawURL, Reason: "missing host"}
	}

	m := addressPattern.FindStringSubmatch(parsed.EscapedPath())
	if m == nil {
		return URL{}, &MalformedURLError{URL: rawURL, Reason: "no homedetails/<address>/<id>_zpid segment"}
	}

	address, err := url.PathUnescape(m[1])
	if err != nil {
		return URL{}, &MalformedURLError{URL: rawURL, Reason: "address segment is not valid percent-encoding"}
	}
	zpid, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return URL{}, &MalformedURLError{URL: rawURL, Reason: "zpid out of range"}
	}

	return URL{Raw: parsed.String(), Address: address, ZPID: zpid}, nil
}

// MaxFolderNameBytes caps folder names well below the 255-byte limit most
// filesystems put on a single path component.
const MaxFolderNameBytes = 200

// FolderName returns the directory name the listing is stored under. Names
// longer than MaxFolderNameBytes are cut and suffixed with the zpid so that
// distinct listings sharing a long prefix stay distinct.
func (u URL) FolderName() (string, error) {
	name := SanitizeFolderName(u.Address)
	if name == "" {
		return "", &MalformedURLError{URL: u.Raw, Reason: "address segment has no usable characters"}
	}
	if len(name) > MaxFolderNameBytes {
		suffix := "_" + strconv.FormatInt(u.ZPID, 10)
		name = strings.TrimRight(name[:MaxFolderNameBytes-len(suffix)], "_.-") + suffix
	}
	return name, nil
}

// FolderName parses rawURL and returns its folder name.
func FolderName(rawURL string) (string, error) {
	u, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.FolderName()
}

// SanitizeFolderName replaces every run of characters outside [A-Za-z0-9._-]
// with an underscore and trims separators from both ends, so the result can
// never be "." or ".." or contain a path separator.
func SanitizeFolderName(s string) string {
	safe := invalidFolderChar.ReplaceAllString(s, "_")
	return strings.Trim(safe, "_.-")
}

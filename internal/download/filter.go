package download

import (
	"github.com/dtnitsch/download-zillow-listings/pkg/listing"
)

// FilterExisting drops URLs whose folder already exists, as reported by
// exists. When several URLs map to the same folder only the last one is kept.
// URLs whose folder name cannot be derived pass through so Run reports them.
func FilterExisting(urls []string, exists func(folder string) bool) ([]string, []Result) {
	lastIndex := make(map[string]int, len(urls))
	folders := make([]string, len(urls))
	for i, raw := range urls {
		folder, err := listing.FolderName(raw)
		if err != nil {
			continue
		}
		folders[i] = folder
		lastIndex[folder] = i
	}

	var keep []string
	var skipped []Result
	for i, raw := range urls {
		folder := folders[i]
		switch {
		case folder == "":
			keep = append(keep, raw)
		case lastIndex[folder] != i:
			skipped = append(skipped, Result{URL: raw, FolderName: folder, Status: StatusSkipped, Note: "superseded by a later URL for the same address"})
		case exists(folder):
			skipped = append(skipped, Result{URL: raw, FolderName: folder, Status: StatusSkipped, Note: "already downloaded"})
		default:
			keep = append(keep, raw)
		}
	}
	return keep, skipped
}

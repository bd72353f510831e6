package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterExisting(t *testing.T) {
	const (
		first  = "https://www.zillow.com/homedetails/1-Main-St-Springfield-IL-62701/1_zpid/"
		second = "https://www.zillow.com/homedetails/2-Oak-Ave-Portland-OR-97201/2_zpid/"
		again  = "https://www.zillow.com/homedetails/1-Main-St-Springfield-IL-62701/1_zpid/?utm=x"
		broken = "https://www.zillow.com/not-a-listing"
	)

	existing := map[string]bool{"2-Oak-Ave-Portland-OR-97201": true}
	keep, skipped := FilterExisting([]string{first, second, broken, again}, func(folder string) bool {
		return existing[folder]
	})

	assert.Equal(t, []string{broken, again}, keep)
	if assert.Len(t, skipped, 2) {
		assert.Equal(t, first, skipped[0].URL)
		assert.Equal(t, StatusSkipped, skipped[0].Status)
		assert.Contains(t, skipped[0].Note, "superseded")

		assert.Equal(t, second, skipped[1].URL)
		assert.Equal(t, "2-Oak-Ave-Portland-OR-97201", skipped[1].FolderName)
		assert.Equal(t, "already downloaded", skipped[1].Note)
	}
}

func TestFilterExisting_NothingOnDisk(t *testing.T) {
	urls := []string{
		"https://www.zillow.com/homedetails/1-Main-St-Springfield-IL-62701/1_zpid/",
		"https://www.zillow.com/homedetails/2-Oak-Ave-Portland-OR-97201/2_zpid/",
	}
	keep, skipped := FilterExisting(urls, func(string) bool { return false })
	assert.Equal(t, urls, keep)
	assert.Empty(t, skipped)
}

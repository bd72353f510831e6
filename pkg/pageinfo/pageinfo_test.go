package pageinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name string
		html string
		want Info
	}{
		{
			name: "title and canonical",
			html: `<html><head>
				<title>
					123 Fake St, Emerald City, MO 12345 | Zillow
				</title>
				<link rel="canonical" href=" https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/ ">
			</head><body></body></html>`,
			want: Info{
				Title:        "123 Fake St, Emerald City, MO 12345 | Zillow",
				CanonicalURL: "https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/",
			},
		},
		{
			name: "og:title fallback",
			html: `<html><head><meta property="og:title" content="1 Main St"></head></html>`,
			want: Info{Title: "1 Main St"},
		},
		{
			name: "not html at all",
			html: `just some text`,
			want: Info{},
		},
		{
			name: "svg title is ignored",
			html: `<html><body><svg><title>icon</title></svg></body></html>`,
			want: Info{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inspect([]byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

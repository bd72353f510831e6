package download

import (
	"fmt"

	"github.com/dtnitsch/download-zillow-listings/internal/common"
	"github.com/dtnitsch/download-zillow-listings/pkg/listing"
	"github.com/urfave/cli/v2"
)

// FolderNameCommand prints the folder each URL would be saved under.
func FolderNameCommand() *cli.Command {
	return &cli.Command{
		Name:      "folder-name",
		Usage:     "print the folder name a listing URL maps to",
		ArgsUsage: "<url>...",
		Action:    FolderNameAction,
	}
}

func FolderNameAction(c *cli.Context) error {
	urls := common.CollectURLs(c.Args().Slice())
	if len(urls) == 0 {
		return cli.Exit("at least one URL is required", ExitPartial)
	}

	failed := 0
	for _, raw := range urls {
		folder, err := listing.FolderName(raw)
		if err != nil {
			failed++
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", raw, err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", folder, raw)
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d URLs are not listing URLs", failed, len(urls)), ExitPartial)
	}
	return nil
}

// Package models defines the configuration shared by the CLI commands.
package models

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DownloadConfig holds runtime configuration for a download run.
// Values come from CLI flags (or their environment variables) and an
// optional URL list file.
type DownloadConfig struct {
	URLs         []string      `validate:"required,min=1,dive,required,http_url"`
	OutputDir    string        `validate:"required"`
	KeepGoing    bool          ``
	SkipExisting bool          ``
	Timeout      time.Duration `validate:"gt=0"`
	UserAgent    string        ``
	Format       string        `validate:"oneof=json yaml"`
	History      bool          ``
}

var validate = validator.New()

// Validate checks the config and returns a readable error listing every
// offending field.
func (c *DownloadConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// URLList is the on-disk format of a URL list file.
//
//	urls:
//	  - https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/
type URLList struct {
	URLs []string `yaml:"urls"`
}

// LoadURLList reads a YAML URL list file. Blank entries are dropped.
func LoadURLList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	var list URLList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse URL list %s: %w", path, err)
	}

	urls := make([]string, 0, len(list.URLs))
	for _, u := range list.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

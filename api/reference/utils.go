package reference

// original source: github.com/MarceloPetrucio/go-scalar-api-reference
// forked for customization

import (
	"encoding/json"
	"fmt"
	"html"
)

const DefaultCDN = "https://cdn.jsdelivr.net/npm/@scalar/api-reference"

type CustomOptions struct {
	PageTitle string `json:"-"`
}

type Options struct {
	CDN           string        `json:"-"`
	Theme         string        `json:"theme,omitempty"`
	Layout        string        `json:"layout,omitempty"`
	SpecContent   string        `json:"-"`
	DarkMode      bool          `json:"darkMode"`
	HideModels    bool          `json:"hideModels,omitempty"`
	CustomOptions CustomOptions `json:"-"`
}

func DefaultOptions(opts Options) *Options {
	if opts.CDN == "" {
		opts.CDN = DefaultCDN
	}
	if opts.Layout == "" {
		opts.Layout = "modern"
	}
	return &opts
}

func safeJSONConfiguration(options *Options) string {
	jsonData, _ := json.Marshal(options)
	return html.EscapeString(string(jsonData))
}

func ApiReferenceHTML(optionsInput *Options) (string, error) {
	options := DefaultOptions(*optionsInput)

	if options.SpecContent == "" {
		return "", fmt.Errorf("specContent must be provided")
	}

	pageTitle := options.CustomOptions.PageTitle
	if pageTitle == "" {
		pageTitle = "Scalar API Reference"
	}

	return fmt.Sprintf(`
    <!DOCTYPE html>
    <html>
      <head>
        <title>%s</title>
        <meta charset="utf-8" />
        <meta name="viewport" content="width=device-width, initial-scale=1" />
      </head>
      <body>
        <script id="api-reference" type="application/json" data-configuration="%s">%s</script>
        <script src="%s"></script>
      </body>
    </html>
  `, html.EscapeString(pageTitle), safeJSONConfiguration(options), options.SpecContent, options.CDN), nil
}

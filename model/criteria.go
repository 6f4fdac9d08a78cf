package model

import (
	"net/url"
	"regexp"
	"strconv"
)

// Criteria is the immutable set of message filters for one run.
// The server-side fields map onto the search endpoint's query parameters;
// Pattern and IncludePinned are applied client-side after each page is
// fetched.
type Criteria struct {
	AuthorID    string
	Content     string
	HasLink     bool
	HasFile     bool
	MinID       string
	MaxID       string
	IncludeNSFW bool

	IncludePinned bool
	Pattern       *regexp.Regexp
}

// Values maps the server-side criteria onto the search endpoint's
// documented query parameters. HasLink and HasFile both write the "has"
// parameter, so configuration validation rejects setting both.
func (c Criteria) Values(offset int) url.Values {
	v := url.Values{}
	if c.AuthorID != "" {
		v.Set("author_id", c.AuthorID)
	}
	if c.Content != "" {
		v.Set("content", c.Content)
	}
	if c.HasLink {
		v.Set("has", "link")
	}
	if c.HasFile {
		v.Set("has", "file")
	}
	if c.MinID != "" {
		v.Set("min_id", c.MinID)
	}
	if c.MaxID != "" {
		v.Set("max_id", c.MaxID)
	}
	if c.IncludeNSFW {
		v.Set("include_nsfw", "true")
	}
	v.Set("offset", strconv.Itoa(offset))
	return v
}

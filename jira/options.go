package jira

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Field presets.
var (
	MinimalFieldSet   = []string{"id"}
	EssentialFieldSet = []string{"id", "self", "key", "summary", "status"}
	StandardFieldSet  = []string{
		"id", "self", "key", "summary", "status",
		"assignee", "reporter", "priority", "issuetype", "created", "updated",
	}
	AllFieldSet = []string{"*all"}
)

// SearchOptions are the query parameters of a search or list request.
// Values are immutable; derive a changed copy through AsBuilder.
type SearchOptions struct {
	jql            string
	fields         []string
	fieldsExplicit bool
	startAt        *int
	maxResults     *int
	nextPageToken  string
	expand         []string
	validateQuery  *bool
	params         url.Values
}

// DefaultSearchOptions returns empty options.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{}
}

// JQL returns the query text set on the options.
func (o SearchOptions) JQL() string { return o.jql }

// Fields returns a copy of the requested fields.
func (o SearchOptions) Fields() []string { return slices.Clone(o.fields) }

// FieldsExplicit reports whether fields were chosen by the caller (or a
// preset) rather than left to the server or the injection policy.
func (o SearchOptions) FieldsExplicit() bool { return o.fieldsExplicit }

// StartAt returns the requested offset and whether one was set.
func (o SearchOptions) StartAt() (int, bool) {
	if o.startAt == nil {
		return 0, false
	}
	return *o.startAt, true
}

// MaxResults returns the requested page size and whether one was set.
func (o SearchOptions) MaxResults() (int, bool) {
	if o.maxResults == nil {
		return 0, false
	}
	return *o.maxResults, true
}

// NextPageToken returns the continuation cursor, empty if none.
func (o SearchOptions) NextPageToken() string { return o.nextPageToken }

// Expand returns a copy of the expand list.
func (o SearchOptions) Expand() []string { return slices.Clone(o.expand) }

// Param returns an extra query parameter.
func (o SearchOptions) Param(key string) string { return o.params.Get(key) }

// Encode renders the options as query parameters. The JQL text is not
// included; each protocol places it itself.
func (o SearchOptions) Encode() url.Values {
	v := url.Values{}
	for k, vs := range o.params {
		v[k] = slices.Clone(vs)
	}
	if len(o.fields) > 0 {
		v.Set("fields", strings.Join(o.fields, ","))
	}
	if o.startAt != nil {
		v.Set("startAt", strconv.Itoa(*o.startAt))
	}
	if o.maxResults != nil {
		v.Set("maxResults", strconv.Itoa(*o.maxResults))
	}
	if o.nextPageToken != "" {
		v.Set("nextPageToken", o.nextPageToken)
	}
	if len(o.expand) > 0 {
		v.Set("expand", strings.Join(o.expand, ","))
	}
	if o.validateQuery != nil {
		v.Set("validateQuery", strconv.FormatBool(*o.validateQuery))
	}
	return v
}

// AsBuilder returns a builder seeded with a copy of o. The explicit-fields
// flag travels with the fields.
func (o SearchOptions) AsBuilder() *SearchOptionsBuilder {
	return &SearchOptionsBuilder{opts: o.clone()}
}

func (o SearchOptions) clone() SearchOptions {
	c := o
	c.fields = slices.Clone(o.fields)
	c.expand = slices.Clone(o.expand)
	if o.startAt != nil {
		n := *o.startAt
		c.startAt = &n
	}
	if o.maxResults != nil {
		n := *o.maxResults
		c.maxResults = &n
	}
	if o.validateQuery != nil {
		b := *o.validateQuery
		c.validateQuery = &b
	}
	if o.params != nil {
		c.params = url.Values{}
		for k, vs := range o.params {
			c.params[k] = slices.Clone(vs)
		}
	}
	return c
}

// SearchOptionsBuilder builds SearchOptions.
type SearchOptionsBuilder struct {
	opts SearchOptions
}

// NewSearchOptions returns an empty builder.
func NewSearchOptions() *SearchOptionsBuilder {
	return &SearchOptionsBuilder{}
}

// JQL sets the query text.
func (b *SearchOptionsBuilder) JQL(jql string) *SearchOptionsBuilder {
	b.opts.jql = jql
	return b
}

// Fields sets the fields to return and marks them explicit.
func (b *SearchOptionsBuilder) Fields(fields ...string) *SearchOptionsBuilder {
	b.opts.fields = slices.Clone(fields)
	b.opts.fieldsExplicit = true
	return b
}

// MinimalFields requests only the issue id.
func (b *SearchOptionsBuilder) MinimalFields() *SearchOptionsBuilder {
	return b.Fields(MinimalFieldSet...)
}

// EssentialFields requests id, self, key, summary and status.
func (b *SearchOptionsBuilder) EssentialFields() *SearchOptionsBuilder {
	return b.Fields(EssentialFieldSet...)
}

// StandardFields requests the fields most views need.
func (b *SearchOptionsBuilder) StandardFields() *SearchOptionsBuilder {
	return b.Fields(StandardFieldSet...)
}

// AllFields requests every field.
func (b *SearchOptionsBuilder) AllFields() *SearchOptionsBuilder {
	return b.Fields(AllFieldSet...)
}

// StartAt sets the offset of the first result.
func (b *SearchOptionsBuilder) StartAt(n int) *SearchOptionsBuilder {
	b.opts.startAt = &n
	return b
}

// MaxResults sets the page size.
func (b *SearchOptionsBuilder) MaxResults(n int) *SearchOptionsBuilder {
	b.opts.maxResults = &n
	return b
}

// NextPageToken sets the continuation cursor.
func (b *SearchOptionsBuilder) NextPageToken(token string) *SearchOptionsBuilder {
	b.opts.nextPageToken = token
	return b
}

// Expand sets the entities to expand.
func (b *SearchOptionsBuilder) Expand(expand ...string) *SearchOptionsBuilder {
	b.opts.expand = slices.Clone(expand)
	return b
}

// Validate sets the validateQuery flag.
func (b *SearchOptionsBuilder) Validate(validate bool) *SearchOptionsBuilder {
	b.opts.validateQuery = &validate
	return b
}

// Param sets an extra query parameter.
func (b *SearchOptionsBuilder) Param(key, value string) *SearchOptionsBuilder {
	if b.opts.params == nil {
		b.opts.params = url.Values{}
	}
	b.opts.params.Set(key, value)
	return b
}

// Build returns the options. The builder may keep being used; later
// changes do not affect options already built.
func (b *SearchOptionsBuilder) Build() SearchOptions {
	return b.opts.clone()
}

// ApplyFieldPolicy injects the essential field set when the V3 protocol is in
// use and the caller did not choose fields. V3 returns only ids otherwise.
// Options with explicit fields and V2 options pass through unchanged.
func ApplyFieldPolicy(opts SearchOptions, version APIVersion) SearchOptions {
	if opts.fieldsExplicit || version != APIVersionV3 {
		return opts
	}
	return opts.AsBuilder().EssentialFields().Build()
}

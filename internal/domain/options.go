package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Options is the sparse option bag shared by a single invocation and the
// persisted settings record. A nil field means "not provided".
type Options struct {
	MaxTokens   *int     `json:"maxTokens,omitempty"`
	Unlimited   *bool    `json:"unlimited,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Context     []string `json:"context,omitempty"`
	Domain      []string `json:"domain,omitempty"`
	Expert      []string `json:"expert,omitempty"`
	LikeImFive  *bool    `json:"likeImFive,omitempty"`
	Code        *string  `json:"code,omitempty"`
	History     *int     `json:"history,omitempty"`
	File        *string  `json:"file,omitempty"`
	Trim        *bool    `json:"trim,omitempty"`
	Model       *string  `json:"model,omitempty"`
	Mock        *bool    `json:"mock,omitempty"`
	Verbose     *bool    `json:"verbose,omitempty"`
}

// NormalizedOptions is Options after defaults and coercions were applied.
type NormalizedOptions struct {
	MaxTokens   int      `json:"maxTokens"`
	Unlimited   bool     `json:"unlimited"`
	Temperature float64  `json:"temperature"`
	Context     []string `json:"context,omitempty"`
	Domain      []string `json:"domain,omitempty"`
	Expert      []string `json:"expert,omitempty"`
	LikeImFive  bool     `json:"likeImFive"`
	Code        string   `json:"code,omitempty"`
	History     int      `json:"history"`
	File        string   `json:"file,omitempty"`
	Trim        bool     `json:"trim"`
	Model       string   `json:"model"`
	Mock        bool     `json:"mock"`
	Verbose     bool     `json:"verbose"`
}

// IsEmpty reports whether no option is set.
func (o Options) IsEmpty() bool {
	return o.MaxTokens == nil && o.Unlimited == nil && o.Temperature == nil &&
		o.Context == nil && o.Domain == nil && o.Expert == nil &&
		o.LikeImFive == nil && o.Code == nil && o.History == nil &&
		o.File == nil && o.Trim == nil && o.Model == nil &&
		o.Mock == nil && o.Verbose == nil
}

// Merge layers explicit over persisted: every field set in explicit wins,
// everything else falls back to persisted.
func Merge(persisted, explicit Options) Options {
	out := persisted
	if explicit.MaxTokens != nil {
		out.MaxTokens = explicit.MaxTokens
	}
	if explicit.Unlimited != nil {
		out.Unlimited = explicit.Unlimited
	}
	if explicit.Temperature != nil {
		out.Temperature = explicit.Temperature
	}
	if explicit.Context != nil {
		out.Context = explicit.Context
	}
	if explicit.Domain != nil {
		out.Domain = explicit.Domain
	}
	if explicit.Expert != nil {
		out.Expert = explicit.Expert
	}
	if explicit.LikeImFive != nil {
		out.LikeImFive = explicit.LikeImFive
	}
	if explicit.Code != nil {
		out.Code = explicit.Code
	}
	if explicit.History != nil {
		out.History = explicit.History
	}
	if explicit.File != nil {
		out.File = explicit.File
	}
	if explicit.Trim != nil {
		out.Trim = explicit.Trim
	}
	if explicit.Model != nil {
		out.Model = explicit.Model
	}
	if explicit.Mock != nil {
		out.Mock = explicit.Mock
	}
	if explicit.Verbose != nil {
		out.Verbose = explicit.Verbose
	}
	return out
}

// Normalize applies defaults and numeric coercions once. defaultModel is
// used when no model was given; an empty defaultModel means DefaultModelName.
func (o Options) Normalize(defaultModel string) NormalizedOptions {
	n := NormalizedOptions{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Context:     o.Context,
		Domain:      o.Domain,
		Expert:      o.Expert,
		Unlimited:   boolValue(o.Unlimited),
		LikeImFive:  boolValue(o.LikeImFive),
		Trim:        boolValue(o.Trim),
		Mock:        boolValue(o.Mock),
		Verbose:     boolValue(o.Verbose),
		Code:        strings.TrimSpace(stringValue(o.Code)),
		File:        strings.TrimSpace(stringValue(o.File)),
		Model:       strings.TrimSpace(stringValue(o.Model)),
	}
	if o.MaxTokens != nil && *o.MaxTokens > 0 {
		n.MaxTokens = *o.MaxTokens
	}
	if o.Temperature != nil {
		n.Temperature = *o.Temperature
	}
	if o.History != nil && *o.History > 0 {
		n.History = *o.History
	}
	if n.Model == "" {
		n.Model = strings.TrimSpace(defaultModel)
	}
	if n.Model == "" {
		n.Model = DefaultModelName
	}
	return n
}

// MarshalJSON leaves unset fields out. A list that is set but empty is kept
// as [] so it reads back as set.
func (o Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MaxTokens   *int      `json:"maxTokens,omitempty"`
		Unlimited   *bool     `json:"unlimited,omitempty"`
		Temperature *float64  `json:"temperature,omitempty"`
		Context     *[]string `json:"context,omitempty"`
		Domain      *[]string `json:"domain,omitempty"`
		Expert      *[]string `json:"expert,omitempty"`
		LikeImFive  *bool     `json:"likeImFive,omitempty"`
		Code        *string   `json:"code,omitempty"`
		History     *int      `json:"history,omitempty"`
		File        *string   `json:"file,omitempty"`
		Trim        *bool     `json:"trim,omitempty"`
		Model       *string   `json:"model,omitempty"`
		Mock        *bool     `json:"mock,omitempty"`
		Verbose     *bool     `json:"verbose,omitempty"`
	}{
		MaxTokens:   o.MaxTokens,
		Unlimited:   o.Unlimited,
		Temperature: o.Temperature,
		Context:     listPtr(o.Context),
		Domain:      listPtr(o.Domain),
		Expert:      listPtr(o.Expert),
		LikeImFive:  o.LikeImFive,
		Code:        o.Code,
		History:     o.History,
		File:        o.File,
		Trim:        o.Trim,
		Model:       o.Model,
		Mock:        o.Mock,
		Verbose:     o.Verbose,
	})
}

func listPtr(list []string) *[]string {
	if list == nil {
		return nil
	}
	return &list
}

// UnmarshalJSON decodes a settings record leniently. Numbers may be JSON
// numbers or numeric strings, list fields accept a bare string, and values
// of the wrong shape are left unset instead of failing the whole record.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Options{}
	for key, value := range raw {
		switch key {
		case "maxTokens":
			o.MaxTokens = decodeInt(value)
		case "unlimited":
			o.Unlimited = decodeBool(value)
		case "temperature":
			o.Temperature = decodeFloat(value)
		case "context":
			o.Context = decodeStrings(value)
		case "domain":
			o.Domain = decodeStrings(value)
		case "expert":
			o.Expert = decodeStrings(value)
		case "likeImFive":
			o.LikeImFive = decodeBool(value)
		case "code":
			o.Code = decodeString(value)
		case "history":
			o.History = decodeInt(value)
		case "file":
			o.File = decodeString(value)
		case "trim":
			o.Trim = decodeBool(value)
		case "model":
			o.Model = decodeString(value)
		case "mock":
			o.Mock = decodeBool(value)
		case "verbose":
			o.Verbose = decodeBool(value)
		}
	}
	return nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decodeFloat(value json.RawMessage) *float64 {
	var f float64
	if err := json.Unmarshal(value, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &parsed
		}
	}
	return nil
}

func decodeInt(value json.RawMessage) *int {
	f := decodeFloat(value)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func decodeBool(value json.RawMessage) *bool {
	var b bool
	if err := json.Unmarshal(value, &b); err == nil {
		return &b
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return &parsed
		}
	}
	return nil
}

func decodeString(value json.RawMessage) *string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return &s
	}
	return nil
}

func decodeStrings(value json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		return list
	}
	if s := decodeString(value); s != nil && *s != "" {
		return []string{*s}
	}
	return nil
}

package graph

import (
	"regexp"
	"strings"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

const (
	namePrefix = `(?:(?:Dr|Prof|Mr|Ms)\.|Sir\b)`
	nameWord   = `[A-Z][a-z]+`
	nameMiddle = `(?:[A-Z][a-z]+|[A-Z]\.)`
	nameSuffix = `(?:Jr\.|Sr\.|III)`
	nameDelim  = `\s*(?:,|;|\band\b|&)\s*`
)

var (
	// strictNamePattern matches a single personal name such as
	// "Dr. John A. Smith" or "Mary Jones, Jr.".
	strictNamePattern = regexp.MustCompile(
		`^(?:` + namePrefix + `\s*)?` + nameWord + `\s+(?:` + nameMiddle + `\s+)?` + nameWord +
			`(?:,?\s+` + nameSuffix + `)?$`,
	)

	// listNamePattern matches one or more capitalized name segments joined
	// by the list delimiters. Only the first segment needs two words.
	listNamePattern = regexp.MustCompile(
		`^(?:` + namePrefix + `\s*)?` + nameWord + `(?:\s+` + nameMiddle + `)+(?:\s+` + nameSuffix + `)?` +
			`(?:` + nameDelim + `(?:` + namePrefix + `\s*)?` + nameWord + `(?:\s+` + nameMiddle + `)*(?:\s+` + nameSuffix + `)?)*$`,
	)

	nameSplitPattern = regexp.MustCompile(nameDelim)
	prefixPattern    = regexp.MustCompile(`^` + namePrefix + `\s*`)
	suffixPattern    = regexp.MustCompile(`(?:,\s*)?\s*` + nameSuffix + `$`)
)

// organizationMarkers are legal-form words that mark a list segment as a
// company even though it is shaped like a personal name.
var organizationMarkers = map[string]struct{}{
	"company": {}, "corp": {}, "corporation": {}, "gmbh": {}, "inc": {},
	"incorporated": {}, "llc": {}, "ltd": {}, "plc": {},
}

// ParsedName is one agent extracted from a creator or contributor field.
// Fallback is set when a list segment failed person parsing and was kept
// as an organization instead.
type ParsedName struct {
	Entity   common.Entity
	Fallback bool
}

// ParsePerson splits a personal name into given name and surname after
// removing honorific prefixes and generational suffixes. The second return
// value is false when the text cannot be a person.
func ParsePerson(text string) (common.Entity, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return common.Entity{}, false
	}

	cleaned := prefixPattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(suffixPattern.ReplaceAllString(cleaned, ""))
	parts := strings.Fields(cleaned)
	if len(parts) < 2 {
		return common.Entity{}, false
	}

	return common.NewPerson(parts[0], strings.Join(parts[1:], " ")), true
}

// ParseCreator classifies a Creator cell. A value matching the single-name
// pattern becomes a Person, anything else is kept whole as an Organization.
// The second return value is false for absent values.
func ParseCreator(value string) (common.Entity, bool) {
	if IsAbsent(value) {
		return common.Entity{}, false
	}
	text := strings.TrimSpace(value)
	if strictNamePattern.MatchString(text) {
		if person, ok := ParsePerson(text); ok {
			return person, true
		}
	}
	return common.NewOrganization(text), true
}

// ParseNameList classifies a Contributor or AddlAuth cell. Values that look
// like a delimited list of names are split and each segment is parsed as a
// person, falling back to an organization. Segments carrying a legal-form
// marker such as "Corp" or "Ltd" are organizations. Any other value is one
// organization.
func ParseNameList(value string) []ParsedName {
	if IsAbsent(value) {
		return nil
	}
	text := strings.TrimSpace(value)

	if !listNamePattern.MatchString(text) {
		return []ParsedName{{Entity: common.NewOrganization(text)}}
	}

	var names []ParsedName
	for _, segment := range nameSplitPattern.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if looksLikeOrganization(segment) {
			names = append(names, ParsedName{Entity: common.NewOrganization(segment), Fallback: true})
			continue
		}
		if person, ok := ParsePerson(segment); ok {
			names = append(names, ParsedName{Entity: person})
			continue
		}
		names = append(names, ParsedName{Entity: common.NewOrganization(segment), Fallback: true})
	}
	return names
}

func looksLikeOrganization(text string) bool {
	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, ".,;&"))
		if _, ok := organizationMarkers[word]; ok {
			return true
		}
	}
	return false
}

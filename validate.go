package nameserv

import (
	"strings"
	"unicode/utf8"

	"github.com/mvxns/nameserv/schema"
)

func checkNameChar(ch byte) bool {
	if ch >= 'a' && ch <= 'z' {
		return true
	}
	if ch >= '0' && ch <= '9' {
		return true
	}
	return ch == schema.LabelSeparator[0]
}

// isNameValid checks length, character set and the top-level label against
// the admin allow-list. Length is measured on the full name, separator and
// tld included. No case folding or punycode normalization.
func isNameValid(name string, allowedTlds []string) error {
	nameLen := len(name)
	if nameLen <= schema.MinNameLength {
		return schema.ErrNameTooShort
	}
	if nameLen > schema.MaxNameLength {
		return schema.ErrNameTooLong
	}
	for i := 0; i < nameLen; i++ {
		if !checkNameChar(name[i]) {
			return schema.ErrNameBadChar
		}
	}
	sepIdx := strings.LastIndex(name, schema.LabelSeparator)
	if sepIdx < 0 {
		return schema.ErrNameNoTld
	}
	tld := name[sepIdx+1:]
	tldValid := false
	for _, allowed := range allowedTlds {
		if allowed == tld {
			tldValid = true
			break
		}
	}
	if !tldValid {
		return schema.ErrNameBadTld
	}
	if !utf8.ValidString(name) {
		return schema.ErrNameNotUtf8
	}
	return nil
}

func splitLabels(name string) []string {
	return strings.Split(name, schema.LabelSeparator)
}

// primaryDomain returns the two trailing labels of name. A two-label name
// is its own primary.
func primaryDomain(name string) (string, error) {
	labels := splitLabels(name)
	if len(labels) < 2 {
		return "", schema.ErrNameBadLabels
	}
	for _, label := range labels {
		if len(label) == 0 {
			return "", schema.ErrNameZeroLabel
		}
	}
	return strings.Join(labels[len(labels)-2:], schema.LabelSeparator), nil
}

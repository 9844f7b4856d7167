package typegen

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gedex/inflector"

	"github.com/fewlinesco/rampsdk/internal/stringset"
)

// copied from golint (https://github.com/golang/lint/blob/4946cea8b6efd778dc31dc2dbeb919535e1b7529/lint.go#L701)
var commonInitialisms = stringset.New(
	"API",
	"ASCII",
	"CPU",
	"CSS",
	"DNS",
	"EOF",
	"GUID",
	"HTML",
	"HTTP",
	"HTTPS",
	"ID",
	"IP",
	"JSON",
	"KYC",
	"LHS",
	"OTP",
	"QPS",
	"RAM",
	"RHS",
	"RPC",
	"SLA",
	"SMTP",
	"SQL",
	"SSH",
	"TCP",
	"TLS",
	"TTL",
	"UDP",
	"UI",
	"UID",
	"UUID",
	"URI",
	"URL",
	"UTF8",
	"VM",
	"XML",
	"XSRF",
	"XSS",
)

var (
	separatorRe = regexp.MustCompile("-|_|\\.")
	camelCaseRe = regexp.MustCompile(`([\p{Ll}\p{N}])(\p{Lu})`)
)

func dashedToWords(s string) string {
	return separatorRe.ReplaceAllString(s, " ")
}

func camelCaseToWords(s string) string {
	return camelCaseRe.ReplaceAllString(s, "$1 $2")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func exportedIdentifierPart(part string) string {
	upperedPart := strings.ToUpper(part)
	if commonInitialisms.Has(upperedPart) {
		return upperedPart
	}
	return upperFirst(strings.ToLower(part))
}

// Identifier turns a wire name such as "kyc_form_id" or "fiatAmountInUsd"
// into a Go identifier. Names starting with a digit get an N prefix.
func Identifier(origName string, exported bool) string {
	nameParts := strings.Fields(camelCaseToWords(dashedToWords(origName)))
	for i, part := range nameParts {
		nameParts[i] = exportedIdentifierPart(part)
	}
	if !exported && len(nameParts) > 0 {
		nameParts[0] = strings.ToLower(nameParts[0])
	}
	rawName := strings.Join(nameParts, "")

	// make sure we build a valid identifier
	buf := &bytes.Buffer{}
	for _, char := range rawName {
		if unicode.IsDigit(char) && buf.Len() == 0 {
			if exported {
				buf.WriteRune('N')
			} else {
				buf.WriteRune('n')
			}
		}
		if unicode.IsLetter(char) || unicode.IsDigit(char) || char == '_' {
			buf.WriteRune(char)
		}
	}

	return buf.String()
}

func singularize(plural string) string {
	singular := inflector.Singularize(plural)
	if singular == plural {
		singular += "Item"
	}
	return singular
}

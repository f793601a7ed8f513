package audit

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SECOP exports shout entity names in upper case; presentation wants
// "Alcaldia De Medellin", not "ALCALDIA DE MEDELLIN".
var titleCaser = cases.Title(language.Spanish)

// DisplayName formats an entity name for human-facing reports. The raw name
// is preserved in structured output; this is presentation only.
func DisplayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return name
	}
	return titleCaser.String(strings.ToLower(name))
}

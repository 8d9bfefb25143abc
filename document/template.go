package document

import (
	"os"
	"sort"
	"strings"
)

// Placeholders resolved when a dataset is loaded.
const (
	TEMPLATE_DEPLOY_HOST string = "DEPLOY_HOST"
	TEMPLATE_YEAR        string = "YEAR"
	TEMPLATE_MONTH       string = "MONTH"
)

// Placeholders left in place for the web application to resolve at request time.
const (
	TEMPLATE_BOUNDARY_GEOMETRY string = "BOUNDARY_GEOMETRY"
	TEMPLATE_START             string = "START"
	TEMPLATE_END               string = "END"
)

// type TemplateVars maps placeholder names, written as "{NAME}" in URL strings, to their replacement values.
type TemplateVars map[string]string

// Placeholder returns the literal "{name}" token.
func Placeholder(name string) string {
	return "{" + name + "}"
}

// DefaultTemplateVars returns template variables for the load-time placeholders read from the
// environment variables of the same name. Unset variables map to their own literal token, as do
// the request-time placeholders, so they pass through to the index untouched.
func DefaultTemplateVars() TemplateVars {

	vars := TemplateVars{}

	for _, k := range []string{TEMPLATE_DEPLOY_HOST, TEMPLATE_YEAR, TEMPLATE_MONTH} {

		v, ok := os.LookupEnv(k)

		if !ok || v == "" {
			v = Placeholder(k)
		}

		vars[k] = v
	}

	for _, k := range []string{TEMPLATE_BOUNDARY_GEOMETRY, TEMPLATE_START, TEMPLATE_END} {
		vars[k] = Placeholder(k)
	}

	return vars
}

// Expand replaces every "{NAME}" token in 's' for which 'vars' has an entry. Unknown tokens are left as-is.
func (vars TemplateVars) Expand(s string) string {

	if len(vars) == 0 {
		return s
	}

	keys := make([]string, 0, len(vars))

	for k := range vars {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)

	for _, k := range keys {
		pairs = append(pairs, Placeholder(k), vars[k])
	}

	return strings.NewReplacer(pairs...).Replace(s)
}

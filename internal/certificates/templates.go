package certificates

import (
	"fmt"
	"strings"
	"text/template"
)

// blankLine stands in for particulars the caller did not supply
const blankLine = "______________________"

// placeholderAliases maps template placeholders to the field keys forms use
// for them. English keys first, then the Swahili labels of the resident
// certificate form.
var placeholderAliases = map[string][]string{
	"name":     {"name", "full_name", "fullName", "Jina Kamili"},
	"nida":     {"nida", "nin", "nida_number", "Namba ya NIDA"},
	"street":   {"street", "village", "Mtaa / Kijiji", "Mtaa"},
	"ward":     {"ward", "Kata"},
	"district": {"district", "Wilaya"},
	"region":   {"region", "Mkoa"},
	"duration": {"duration", "Muda wa Makazi"},
}

const swahiliResidenceBody = `Kwa yeyote anayehusika:

Hii ni kuthibitisha kwamba Bw./Bi. {{field "name"}}, mwenye Namba ya NIDA {{field "nida"}}, ni mkazi halali wa {{field "street"}}, Kata ya {{field "ward"}}, Wilaya ya {{field "district"}}, Mkoa wa {{field "region"}}.

Kulingana na rekodi zilizopo katika ofisi hii, amekuwa akiishi katika eneo hilo kwa kipindi cha {{field "duration"}}.

Cheti hiki kimetolewa kwa madhumuni ya utambulisho na uthibitisho wa makazi, na hakina uhusiano wa moja kwa moja na masuala ya umiliki wa mali.`

const englishResidenceBody = `To Whom It May Concern:

This is to certify that Mr./Ms. {{field "name"}}, holder of National ID No. {{field "nida"}}, is a lawful resident of {{field "street"}}, Ward of {{field "ward"}}, District of {{field "district"}}, in the Region of {{field "region"}}.

Based on the records held by this office, he/she has been residing in the mentioned area for a period of {{field "duration"}}.

This certificate is issued for identification and confirmation of residence only, and has no direct bearing on matters of property ownership.`

var defaultBodies = map[Language]*template.Template{
	LanguageSwahili: parseBody("sw", swahiliResidenceBody),
	LanguageEnglish: parseBody("en", englishResidenceBody),
}

func parseBody(name, text string) *template.Template {
	// field is rebound per execution
	funcs := template.FuncMap{"field": func(string) string { return blankLine }}
	return template.Must(template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text))
}

// ResolveBody returns the caller's body text, or the default
// certificate-of-residence paragraph for the request language with
// placeholders filled from Fields.
func ResolveBody(req DocumentRequest) (string, error) {
	if req.BodyText != "" {
		return req.BodyText, nil
	}

	tmpl, ok := defaultBodies[req.EffectiveLanguage()]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Language)
	}

	clone, err := tmpl.Clone()
	if err != nil {
		return "", err
	}
	clone.Funcs(template.FuncMap{"field": func(placeholder string) string {
		return lookupPlaceholder(req.Fields, placeholder)
	}})

	var out strings.Builder
	if err := clone.Execute(&out, nil); err != nil {
		return "", err
	}
	return out.String(), nil
}

func lookupPlaceholder(fields Fields, placeholder string) string {
	keys, ok := placeholderAliases[placeholder]
	if !ok {
		keys = []string{placeholder}
	}
	for _, key := range keys {
		if value, ok := fields.Get(key); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return blankLine
}

package certificates

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultServicePrefix = "CT"

// NumberGenerator builds display certificate numbers of the form
// CT-2000-M-DODOMA-0000-4821.
//
// Numbers are reference tokens only. The suffix is random, so two calls with
// the same applicant yield different numbers, and nothing guarantees
// uniqueness.
type NumberGenerator struct {
	prefix string
	intn   func(n int) int
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	if prefix == "" {
		prefix = DefaultServicePrefix
	}
	return &NumberGenerator{prefix: prefix, intn: rand.Intn}
}

// Generate returns ok=false when any input is blank; callers treat that as
// "no certificate number available".
func (g *NumberGenerator) Generate(dateOfBirth, fullName, region string) (string, bool) {
	dateOfBirth = strings.TrimSpace(dateOfBirth)
	fullName = strings.TrimSpace(fullName)
	region = strings.TrimSpace(region)
	if dateOfBirth == "" || fullName == "" || region == "" {
		return "", false
	}

	initial := "X"
	if r, _ := utf8.DecodeRuneInString(fullName); r != utf8.RuneError {
		initial = string(unicode.ToUpper(r))
	}

	regionCode := strings.ToUpper(strings.Fields(region)[0])
	suffix := 1000 + g.intn(9000)

	return fmt.Sprintf("%s-%s-%s-%s-0000-%04d", g.prefix, birthYear(dateOfBirth), initial, regionCode, suffix), true
}

// birthYear takes the component before the first date separator, "0000"
// unless it is exactly four digits.
func birthYear(dateOfBirth string) string {
	year := dateOfBirth
	if i := strings.IndexAny(dateOfBirth, "-/. "); i >= 0 {
		year = dateOfBirth[:i]
	}
	if len(year) != 4 {
		return "0000"
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return "0000"
		}
	}
	return year
}

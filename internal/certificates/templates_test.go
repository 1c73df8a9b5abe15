package certificates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBodyPrefersBodyText(t *testing.T) {
	body, err := ResolveBody(DocumentRequest{Title: "Kibali", BodyText: "Kibali cha ujenzi."})
	require.NoError(t, err)
	assert.Equal(t, "Kibali cha ujenzi.", body)
}

func TestResolveBodySwahiliDefault(t *testing.T) {
	body, err := ResolveBody(DocumentRequest{
		Title: "Cheti cha Ukazi",
		Fields: Fields{
			{Key: "Jina Kamili", Value: "Maria Mushi"},
			{Key: "Kata", Value: "Kikuyu"},
			{Key: "Mkoa", Value: "Dodoma"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Kwa yeyote anayehusika:")
	assert.Contains(t, body, "Bw./Bi. Maria Mushi")
	assert.Contains(t, body, "Kata ya Kikuyu")
	assert.Contains(t, body, "Mkoa wa Dodoma")
	// missing particulars stay blank lines
	assert.Contains(t, body, "Namba ya NIDA "+blankLine)
}

func TestResolveBodyEnglishDefault(t *testing.T) {
	body, err := ResolveBody(DocumentRequest{
		Title:    "Certificate of Residence",
		Language: LanguageEnglish,
		Fields:   Fields{{Key: "name", Value: "Juma Ali"}, {Key: "duration", Value: "5 years"}},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "To Whom It May Concern:")
	assert.Contains(t, body, "Mr./Ms. Juma Ali")
	assert.Contains(t, body, "a period of 5 years.")
}

func TestResolveBodyBlankValueFallsBack(t *testing.T) {
	body, err := ResolveBody(DocumentRequest{
		Title:    "Certificate",
		Language: LanguageEnglish,
		Fields:   Fields{{Key: "name", Value: "   "}},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Mr./Ms. "+blankLine)
}

func TestResolveBodyUnsupportedLanguage(t *testing.T) {
	_, err := ResolveBody(DocumentRequest{Title: "Certificate", Language: "fr"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestResolveBodyConcurrentCallsDoNotLeakFields(t *testing.T) {
	done := make(chan string, 2)
	for _, name := range []string{"Asha", "Baraka"} {
		go func(name string) {
			body, _ := ResolveBody(DocumentRequest{Title: "T", Fields: Fields{{Key: "name", Value: name}}})
			done <- body
		}(name)
	}

	first, second := <-done, <-done
	assert.NotEqual(t, first, second)
}

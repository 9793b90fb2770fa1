package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLocalesHaveSameKeys(t *testing.T) {
	tr := New("en")
	require.NoError(t, tr.LoadTranslations(localeFS, "locales"))

	require.True(t, tr.Supports("en"))
	require.True(t, tr.Supports("fr"))
	for key := range tr.translations["en"] {
		assert.Contains(t, tr.translations["fr"], key)
	}
	assert.Len(t, tr.translations["fr"], len(tr.translations["en"]))
}

func TestT_FallsBackToDefaultLanguage(t *testing.T) {
	tr := New("en")
	require.NoError(t, tr.LoadTranslations(fstest.MapFS{
		"l/en.json": {Data: []byte(`{"a": "Invalid %s", "b": "only english"}`)},
		"l/fr.json": {Data: []byte(`{"a": "%s invalide"}`)},
		"l/README":  {Data: []byte("ignored")},
	}, "l"))

	assert.Equal(t, "npk invalide", tr.T("fr", "a", "npk"))
	assert.Equal(t, "only english", tr.T("fr", "b"))
	assert.Equal(t, "missing.key", tr.T("fr", "missing.key"))
	assert.Equal(t, "Invalid npk", tr.T("de", "a", "npk"))
}

func TestLoadTranslations_BadJSON(t *testing.T) {
	tr := New("en")
	err := tr.LoadTranslations(fstest.MapFS{"l/en.json": {Data: []byte(`{`)}}, "l")
	assert.Error(t, err)
}

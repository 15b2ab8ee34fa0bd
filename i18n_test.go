package codewise

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeryu/codewise/locale"
)

func TestTranslatorMessages(t *testing.T) {
	tr, err := NewTranslator(EmbeddedAssets)
	require.NoError(t, err)

	assert.Equal(t, "Latest posts", tr.Message(locale.English, "LatestPosts", nil))
	assert.Equal(t, "최신 글", tr.Message(locale.Korean, "LatestPosts", nil))
	assert.Equal(t, "Page 2 of 3", tr.Message(locale.English, "PageOf", map[string]any{"Page": 2, "Total": 3}))
	assert.Equal(t, "NoSuchMessage", tr.Message(locale.Korean, "NoSuchMessage", nil))
}

func TestTranslatorPlurals(t *testing.T) {
	tr, err := NewTranslator(EmbeddedAssets)
	require.NoError(t, err)

	assert.Equal(t, "1 post", tr.Plural(locale.English, "PostCount", 1))
	assert.Equal(t, "3 posts", tr.Plural(locale.English, "PostCount", 3))
	assert.Equal(t, "글 1개", tr.Plural(locale.Korean, "PostCount", 1))
	assert.Equal(t, "글 3개", tr.Plural(locale.Korean, "PostCount", 3))
}

func TestKoreanMessagesResolve(t *testing.T) {
	tr, err := NewTranslator(EmbeddedAssets)
	require.NoError(t, err)
	for _, tag := range tr.bundle.LanguageTags() {
		assert.Contains(t, []string{"en", "ko"}, tag.String())
	}
	for _, id := range []string{"NavHome", "NotFoundTitle", "ReadTranslation", "AdminLoginError", "Footer"} {
		assert.NotEqual(t, id, tr.Message(locale.Korean, id, map[string]any{"Year": 2024, "Name": "x"}), id)
	}
}

func TestNewTranslatorMissingFile(t *testing.T) {
	_, err := NewTranslator(fstest.MapFS{
		"locales/active.en.toml": {Data: []byte(`NavHome = "Home"`)},
	})
	assert.Error(t, err)
}

package urlpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"root", "https://jakeryu.com", []string{}},
		{"root slash", "https://jakeryu.com/", []string{}},
		{"single", "https://jakeryu.com/blog", []string{"blog"}},
		{"trailing slash", "https://jakeryu.com/blog/", []string{"blog"}},
		{"repeated slashes", "https://jakeryu.com//blog///my-post//", []string{"blog", "my-post"}},
		{"query ignored", "https://jakeryu.com/blog?page=2", []string{"blog"}},
		{"rooted path", "/tags/go/", []string{"tags", "go"}},
		{"escaped kept", "https://jakeryu.com/tags/%ED%81%B4%EB%A6%B0", []string{"tags", "%ED%81%B4%EB%A6%B0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Segments(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, append([]string{}, got...))
		})
	}
}

func TestSegmentsInvalid(t *testing.T) {
	for _, raw := range []string{
		"http://[::1",
		"blog/my-post",
		"mailto:jake@jakeryu.com",
		"https:///blog",
		"%zz",
	} {
		_, err := Segments(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestLastSegmentNeverEmpty(t *testing.T) {
	for _, raw := range []string{
		"https://x", "https://x/", "https://x//", "https://x/blog/", "https://x/blog//",
		"https://x/a/b/c/", "/", "//x", "http://[::1",
	} {
		s, ok := LastSegment(raw)
		if ok {
			assert.NotEmpty(t, s, raw)
		} else {
			assert.Empty(t, s, raw)
		}
	}
}

func TestSecondToLastSegment(t *testing.T) {
	s, ok := SecondToLastSegment("https://x/blog/my-post/")
	require.True(t, ok)
	assert.Equal(t, "blog", s)

	_, ok = SecondToLastSegment("https://x/blog")
	assert.False(t, ok)

	_, ok = SecondToLastSegment("http://[::1")
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		raw                                        string
		home, about, blog, blogPage, tags, tagPage bool
	}{
		{raw: "https://x", home: true},
		{raw: "https://x/", home: true},
		{raw: "https://x/about", about: true},
		{raw: "https://x/about/", about: true},
		{raw: "https://x/blog", blog: true},
		{raw: "https://x/blog?page=3", blog: true},
		{raw: "https://x/blog/my-post", blogPage: true},
		{raw: "https://x/blog/my-post-ko/", blogPage: true},
		{raw: "https://x/tags", tags: true},
		{raw: "https://x/tags/clean-architecture/", tagPage: true},
		{raw: "https://x/feed.xml"},
		{raw: "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.home, IsHome(tt.raw), "IsHome")
			assert.Equal(t, tt.about, IsAbout(tt.raw), "IsAbout")
			assert.Equal(t, tt.blog, IsBlog(tt.raw), "IsBlog")
			assert.Equal(t, tt.blogPage, IsBlogPage(tt.raw), "IsBlogPage")
			assert.Equal(t, tt.tags, IsTags(tt.raw), "IsTags")
			assert.Equal(t, tt.tagPage, IsTagPage(tt.raw), "IsTagPage")
		})
	}
}

func TestBlogPredicatesMutuallyExclusive(t *testing.T) {
	for _, raw := range []string{
		"https://x/blog", "https://x/blog/", "https://x/blog/my-post", "https://x/blog/my-post/",
		"https://x/", "https://x/tags/blog", "https://x/blog/blog", "https://x/blog/blog/",
	} {
		assert.False(t, IsBlog(raw) && IsBlogPage(raw), raw)
	}
}

func TestReserved(t *testing.T) {
	for _, s := range []string{"about", "blog", "tags"} {
		assert.True(t, Reserved(s), s)
	}
	for _, s := range []string{"", "Blog", "blog-ko", "about-me"} {
		assert.False(t, Reserved(s), s)
	}
	assert.False(t, IsBlogPage("https://x/blog/about/"))
	assert.False(t, IsBlogPage("/blog/tags"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"https://x", Home},
		{"/", Home},
		{"https://x/about/", About},
		{"https://x/blog?page=2", BlogIndex},
		{"https://x/blog/hello-world/", BlogPost},
		{"https://x/tags/", TagsIndex},
		{"https://x/tags/go", TagPage},
		{"https://x/feed.xml", Unknown},
		{"https://x/a/b/c", Unknown},
		{"http://[::1", Invalid},
		{"relative/path", Invalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.raw), tt.raw)
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "blog-post", BlogPost.String())
	assert.Equal(t, "category(42)", Category(42).String())
}

func TestStripQuery(t *testing.T) {
	got, err := StripQuery("https://x/blog/?page=2&tag=go#top")
	require.NoError(t, err)
	assert.Equal(t, "https://x/blog/", got)

	got, err = StripQuery("https://x/blog")
	require.NoError(t, err)
	assert.Equal(t, "https://x/blog", got)

	_, err = StripQuery("http://[::1")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

package tmdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURL(t *testing.T) {
	base := "https://image.tmdb.org/t/p"

	assert.Equal(t, base+"/w342/a.jpg", ImageURL(base, "/a.jpg", KindPoster, SizeMedium))
	assert.Equal(t, base+"/w780/a.jpg", ImageURL(base, "/a.jpg", KindPoster, SizeXLarge))
	assert.Equal(t, base+"/w1280/b.jpg", ImageURL(base, "/b.jpg", KindBackdrop, SizeLarge))
	assert.Equal(t, base+"/h632/p.jpg", ImageURL(base, "/p.jpg", KindProfile, SizeLarge))
	assert.Equal(t, base+"/w780/b.jpg", ImageURL(base, "/b.jpg", KindBackdrop, SizeXLarge), "unknown size falls back to medium")
	assert.Empty(t, ImageURL(base, "", KindPoster, SizeSmall))
	assert.Empty(t, ImageURL(base, "/a.jpg", "logo", SizeSmall))
}

func TestResponsiveImages(t *testing.T) {
	variants := ResponsiveImages("https://img.test", "/x.jpg", KindBackdrop)
	require.Len(t, variants, 4)
	assert.Equal(t, SizeSmall, variants[0].Size)
	assert.Equal(t, "https://img.test/w300/x.jpg", variants[0].URL)
	assert.Equal(t, SizeOriginal, variants[3].Size)
	assert.Nil(t, ResponsiveImages("https://img.test", "", KindPoster))
}

func TestClientImageHelpers(t *testing.T) {
	c := New("k", "", WithImageBaseURL("https://img.test/"))
	assert.Equal(t, "https://img.test/w154/p.jpg", c.PosterURL("/p.jpg", SizeSmall))
	assert.Equal(t, "https://img.test/original/b.jpg", c.BackdropURL("/b.jpg", SizeOriginal))
	assert.Equal(t, "https://img.test/w185/f.jpg", c.ProfileURL("/f.jpg", ""))
}

func TestVideoPriority(t *testing.T) {
	assert.Equal(t, 1, VideoPriority(Video{Type: VideoTrailer, Official: true}))
	assert.Equal(t, 2, VideoPriority(Video{Type: VideoTrailer}))
	assert.Equal(t, 3, VideoPriority(Video{Type: VideoTeaser, Official: true}))
	assert.Equal(t, 10, VideoPriority(Video{Type: VideoBehindTheScenes}))
	assert.Equal(t, 13, VideoPriority(Video{Type: VideoRecap, Official: true}))
	assert.Equal(t, 999, VideoPriority(Video{Type: "Opening Credits", Official: true}))
}

func TestTrailerSelection(t *testing.T) {
	videos := []Video{
		{Key: "teaser", Type: VideoTeaser, Official: true, Site: SiteYouTube},
		{Key: "fan", Type: VideoTrailer, Site: SiteYouTube},
		{Key: "vimeo", Type: VideoTrailer, Official: true, Site: SiteVimeo},
		{Key: "yt", Type: VideoTrailer, Official: true, Site: SiteYouTube},
	}

	best, ok := BestTrailer(videos)
	require.True(t, ok)
	assert.Equal(t, "vimeo", best.Key, "ties keep input order")

	main, ok := MainTrailer(videos)
	require.True(t, ok)
	assert.Equal(t, "yt", main.Key)

	_, ok = BestTrailer(videos[:1])
	assert.False(t, ok)

	fallback, ok := MainTrailer(videos[:2])
	require.True(t, ok)
	assert.Equal(t, "fan", fallback.Key)
}

func TestGroupVideos(t *testing.T) {
	groups := GroupVideos([]Video{
		{Key: "c2", Type: VideoClip},
		{Key: "c1", Type: VideoClip, Official: true},
		{Key: "r", Type: VideoRecap},
	})
	require.Len(t, groups.Clips, 2)
	assert.Equal(t, "c1", groups.Clips[0].Key)
	assert.Len(t, groups.Recaps, 1)
	assert.Empty(t, groups.Trailers)
}

func TestVideoURLs(t *testing.T) {
	yt := Video{Key: "abc", Site: SiteYouTube, Type: VideoFeaturette}
	vm := Video{Key: "123", Site: SiteVimeo, Type: "Other"}
	other := Video{Key: "zzz", Site: "Dailymotion"}

	assert.Equal(t, "https://www.youtube.com/watch?v=abc", yt.WatchURL())
	assert.Equal(t, "https://www.youtube.com/embed/abc", yt.EmbedURL())
	assert.Equal(t, "https://img.youtube.com/vi/abc/maxresdefault.jpg", yt.ThumbnailURL())
	assert.Equal(t, "https://vimeo.com/123", vm.WatchURL())
	assert.Equal(t, "https://player.vimeo.com/video/123", vm.EmbedURL())
	assert.Equal(t, "/images/video-placeholder.jpg", vm.ThumbnailURL())
	assert.Equal(t, "https://www.youtube.com/watch?v=zzz", other.WatchURL())

	assert.Equal(t, "花絮", yt.TypeName())
	assert.Equal(t, "视频", vm.TypeName())
	assert.True(t, yt.IsYouTube())
	assert.True(t, vm.IsVimeo())
}

func TestParseMediaType(t *testing.T) {
	m, err := ParseMediaType(" TV ")
	require.NoError(t, err)
	assert.Equal(t, MediaTV, m)
	assert.True(t, m.IsTitle())

	_, err = ParseMediaType("book")
	assert.ErrorIs(t, err, ErrInvalidMediaType)
}

func TestCreditsDirectors(t *testing.T) {
	c := Credits{Crew: []CrewMember{{Name: "A", Job: "Director"}, {Name: "B", Job: "Writer"}}}
	directors := c.Directors()
	require.Len(t, directors, 1)
	assert.Equal(t, "A", directors[0].Name)
}

package device

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBreakpoints(t *testing.T) {
	cases := []struct {
		width int
		want  Type
	}{
		{0, Mobile},
		{639, Mobile},
		{640, Tablet},
		{767, Tablet},
		{768, Desktop},
		{1023, Desktop},
		{1024, LargeDesktop},
		{2560, LargeDesktop},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.width, 0).Type, "width %d", tc.width)
	}
}

func TestClassifyFlags(t *testing.T) {
	s := Classify(1280, 800)
	assert.True(t, s.IsDesktop)
	assert.True(t, s.IsLargeDesktop)
	assert.False(t, s.IsTablet)
	assert.Equal(t, 800, s.Height)
	assert.Equal(t, "大屏桌面 (> 1024px)", s.Text)

	assert.Equal(t, "小屏桌面 (768px - 1024px)", Classify(800, 0).Text)
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/session?vw=700&vh=900", nil)
	s := FromRequest(r)
	assert.Equal(t, Tablet, s.Type)
	assert.Equal(t, 900, s.Height)

	r = httptest.NewRequest("GET", "/api/session?vw=700", nil)
	r.Header.Set("Sec-CH-Viewport-Width", "1100")
	assert.Equal(t, LargeDesktop, FromRequest(r).Type, "client hint wins over query")

	r = httptest.NewRequest("GET", "/api/session?vw=abc", nil)
	assert.Equal(t, 0, FromRequest(r).Width)
}

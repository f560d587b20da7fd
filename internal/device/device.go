// Package device classifies the client's viewport into the layout breakpoints the UI uses.
package device

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	TabletMinWidth       = 640
	DesktopMinWidth      = 768
	LargeDesktopMinWidth = 1024
)

type Type string

const (
	Mobile       Type = "mobile"
	Tablet       Type = "tablet"
	Desktop      Type = "desktop"
	LargeDesktop Type = "large-desktop"
)

type Screen struct {
	Width          int    `json:"screenWidth"`
	Height         int    `json:"screenHeight"`
	IsMobile       bool   `json:"isMobile"`
	IsTablet       bool   `json:"isTablet"`
	IsDesktop      bool   `json:"isDesktop"`
	IsLargeDesktop bool   `json:"isLargeDesktop"`
	Type           Type   `json:"deviceType"`
	Text           string `json:"deviceTypeText"`
}

// Classify maps a viewport to its breakpoint flags. Large desktops are also desktops.
func Classify(width, height int) Screen {
	s := Screen{
		Width:          width,
		Height:         height,
		IsMobile:       width < TabletMinWidth,
		IsTablet:       width >= TabletMinWidth && width < DesktopMinWidth,
		IsDesktop:      width >= DesktopMinWidth,
		IsLargeDesktop: width >= LargeDesktopMinWidth,
	}
	switch {
	case s.IsMobile:
		s.Type = Mobile
	case s.IsTablet:
		s.Type = Tablet
	case s.IsLargeDesktop:
		s.Type = LargeDesktop
	default:
		s.Type = Desktop
	}
	s.Text = describe(width)
	return s
}

func describe(width int) string {
	switch {
	case width < TabletMinWidth:
		return "移动端 (< 640px)"
	case width < DesktopMinWidth:
		return "平板 (640px - 768px)"
	case width < LargeDesktopMinWidth:
		return "小屏桌面 (768px - 1024px)"
	default:
		return "大屏桌面 (> 1024px)"
	}
}

// FromRequest reads the viewport from client hints, falling back to the vw and vh
// query parameters. Unknown dimensions are zero, which classifies as mobile.
func FromRequest(r *http.Request) Screen {
	width := firstInt(
		r.Header.Get("Sec-CH-Viewport-Width"),
		r.Header.Get("Viewport-Width"),
		r.URL.Query().Get("vw"),
	)
	height := firstInt(
		r.Header.Get("Sec-CH-Viewport-Height"),
		r.URL.Query().Get("vh"),
	)
	return Classify(width, height)
}

func firstInt(values ...string) int {
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n > 0 {
			return n
		}
	}
	return 0
}

package tmdb

import (
	"cmp"
	"slices"
)

const (
	VideoTrailer         = "Trailer"
	VideoTeaser          = "Teaser"
	VideoClip            = "Clip"
	VideoFeaturette      = "Featurette"
	VideoBehindTheScenes = "Behind the Scenes"
	VideoBloopers        = "Bloopers"
	VideoRecap           = "Recap"

	SiteYouTube = "YouTube"
	SiteVimeo   = "Vimeo"
)

const lowestVideoPriority = 999

// videoTypeOrder ranks video types; official videos of a type outrank unofficial ones.
var videoTypeOrder = []string{
	VideoTrailer,
	VideoTeaser,
	VideoClip,
	VideoFeaturette,
	VideoBehindTheScenes,
	VideoBloopers,
	VideoRecap,
}

// VideoPriority is 1 for an official trailer, 2 for an unofficial one, and so on
// down the type order. Lower is better.
func VideoPriority(v Video) int {
	idx := slices.Index(videoTypeOrder, v.Type)
	if idx < 0 {
		return lowestVideoPriority
	}
	p := idx*2 + 1
	if !v.Official {
		p++
	}
	return p
}

// ByType returns the videos of one type sorted by priority.
func ByType(videos []Video, videoType string) []Video {
	var out []Video
	for _, v := range videos {
		if v.Type == videoType {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b Video) int {
		return cmp.Compare(VideoPriority(a), VideoPriority(b))
	})
	return out
}

func BestTrailer(videos []Video) (Video, bool) {
	trailers := ByType(videos, VideoTrailer)
	if len(trailers) == 0 {
		return Video{}, false
	}
	return trailers[0], true
}

// MainTrailer prefers an official YouTube trailer and falls back to BestTrailer.
func MainTrailer(videos []Video) (Video, bool) {
	for _, v := range videos {
		if v.Type == VideoTrailer && v.Official && v.Site == SiteYouTube {
			return v, true
		}
	}
	return BestTrailer(videos)
}

type VideoGroups struct {
	Trailers        []Video `json:"trailers"`
	Teasers         []Video `json:"teasers"`
	Clips           []Video `json:"clips"`
	Featurettes     []Video `json:"featurettes"`
	BehindTheScenes []Video `json:"behindTheScenes"`
	Bloopers        []Video `json:"bloopers"`
	Recaps          []Video `json:"recaps"`
}

func GroupVideos(videos []Video) VideoGroups {
	return VideoGroups{
		Trailers:        ByType(videos, VideoTrailer),
		Teasers:         ByType(videos, VideoTeaser),
		Clips:           ByType(videos, VideoClip),
		Featurettes:     ByType(videos, VideoFeaturette),
		BehindTheScenes: ByType(videos, VideoBehindTheScenes),
		Bloopers:        ByType(videos, VideoBloopers),
		Recaps:          ByType(videos, VideoRecap),
	}
}

// WatchURL defaults to YouTube for unknown sites.
func (v Video) WatchURL() string {
	if v.Site == SiteVimeo {
		return "https://vimeo.com/" + v.Key
	}
	return "https://www.youtube.com/watch?v=" + v.Key
}

func (v Video) EmbedURL() string {
	if v.Site == SiteVimeo {
		return "https://player.vimeo.com/video/" + v.Key
	}
	return "https://www.youtube.com/embed/" + v.Key
}

// ThumbnailURL has no Vimeo source without an extra API call, so a local placeholder is used.
func (v Video) ThumbnailURL() string {
	if v.Site == SiteVimeo {
		return "/images/video-placeholder.jpg"
	}
	return "https://img.youtube.com/vi/" + v.Key + "/maxresdefault.jpg"
}

var videoTypeNamesZH = map[string]string{
	VideoTrailer:         "预告片",
	VideoTeaser:          "先导片",
	VideoClip:            "片段",
	VideoFeaturette:      "花絮",
	VideoBehindTheScenes: "幕后花絮",
	VideoBloopers:        "花絮",
	VideoRecap:           "回顾",
}

// TypeName is the Chinese display name of the video type.
func (v Video) TypeName() string {
	if name, ok := videoTypeNamesZH[v.Type]; ok {
		return name
	}
	return "视频"
}

func (v Video) IsYouTube() bool { return v.Site == SiteYouTube }

func (v Video) IsVimeo() bool { return v.Site == SiteVimeo }

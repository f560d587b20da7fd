package tmdb

type ImageKind string

const (
	KindPoster   ImageKind = "poster"
	KindBackdrop ImageKind = "backdrop"
	KindProfile  ImageKind = "profile"
)

type ImageSize string

const (
	SizeSmall    ImageSize = "small"
	SizeMedium   ImageSize = "medium"
	SizeLarge    ImageSize = "large"
	SizeXLarge   ImageSize = "xlarge"
	SizeOriginal ImageSize = "original"
)

var imageSizes = map[ImageKind]map[ImageSize]string{
	KindPoster: {
		SizeSmall:    "w154",
		SizeMedium:   "w342",
		SizeLarge:    "w500",
		SizeXLarge:   "w780",
		SizeOriginal: "original",
	},
	KindBackdrop: {
		SizeSmall:    "w300",
		SizeMedium:   "w780",
		SizeLarge:    "w1280",
		SizeOriginal: "original",
	},
	KindProfile: {
		SizeSmall:    "w45",
		SizeMedium:   "w185",
		SizeLarge:    "h632",
		SizeOriginal: "original",
	},
}

// sizeOrder keeps responsive variants smallest first.
var sizeOrder = []ImageSize{SizeSmall, SizeMedium, SizeLarge, SizeXLarge, SizeOriginal}

// ImageURL builds a full image URL. Unknown sizes fall back to medium. An empty
// path or unknown kind yields "".
func ImageURL(base, path string, kind ImageKind, size ImageSize) string {
	if path == "" {
		return ""
	}
	sizes, ok := imageSizes[kind]
	if !ok {
		return ""
	}
	value, ok := sizes[size]
	if !ok {
		value = sizes[SizeMedium]
	}
	return base + "/" + value + path
}

type ImageVariant struct {
	Size ImageSize `json:"size"`
	URL  string    `json:"url"`
}

// ResponsiveImages returns every size variant defined for kind.
func ResponsiveImages(base, path string, kind ImageKind) []ImageVariant {
	if path == "" {
		return nil
	}
	sizes := imageSizes[kind]
	var out []ImageVariant
	for _, size := range sizeOrder {
		if _, ok := sizes[size]; !ok {
			continue
		}
		out = append(out, ImageVariant{Size: size, URL: ImageURL(base, path, kind, size)})
	}
	return out
}

func (c *Client) PosterURL(path string, size ImageSize) string {
	return ImageURL(c.imageBaseURL, path, KindPoster, size)
}

func (c *Client) BackdropURL(path string, size ImageSize) string {
	return ImageURL(c.imageBaseURL, path, KindBackdrop, size)
}

func (c *Client) ProfileURL(path string, size ImageSize) string {
	return ImageURL(c.imageBaseURL, path, KindProfile, size)
}

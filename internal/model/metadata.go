package model

import "time"

type Metadata struct {
	Views            *int              `json:"views,omitempty"`
	Likes            *int              `json:"likes,omitempty"`
	Comments         *int              `json:"comments,omitempty"`
	SEOScore         *float64          `json:"seoScore,omitempty"`
	GeneratedContent *GeneratedContent `json:"generatedContent,omitempty"`
}

type GeneratedContent struct {
	Caption          string                 `json:"caption"`
	Tags             []string               `json:"tags"`
	Title            string                 `json:"title"`
	ImagePrompt      string                 `json:"imagePrompt,omitempty"`
	VideoPrompt      string                 `json:"videoPrompt,omitempty"`
	ImageURL         string                 `json:"imageUrl,omitempty"`
	VideoURL         string                 `json:"videoUrl,omitempty"`
	PublishingStatus PublishingStatus       `json:"publishingStatus"`
	Publications     map[string]Publication `json:"publications,omitempty"`
}

type PublishingStatus struct {
	Instagram *bool `json:"instagram,omitempty"`
	YouTube   *bool `json:"youtube,omitempty"`
}

type Publication struct {
	Medium      string    `json:"medium"`
	Channel     string    `json:"channel"`
	PlatformID  string    `json:"platformId"`
	PublishedAt time.Time `json:"publishedAt"`
}

// NewMetadata is the metadata a freshly planned content item starts with.
func NewMetadata() Metadata {
	zero := func() *int { v := 0; return &v }
	return Metadata{Views: zero(), Likes: zero(), Comments: zero()}
}

// Flag reports the medium-level publishing flag.
func (s PublishingStatus) Flag(medium string) bool {
	switch medium {
	case MediumInstagram:
		return s.Instagram != nil && *s.Instagram
	case MediumYouTubeShorts:
		return s.YouTube != nil && *s.YouTube
	}
	return false
}

func (s *PublishingStatus) Set(medium string) {
	published := true
	switch medium {
	case MediumInstagram:
		s.Instagram = &published
	case MediumYouTubeShorts:
		s.YouTube = &published
	}
}

// Clone returns a deep copy so callers can extend generated content without
// aliasing a previously persisted value.
func (g *GeneratedContent) Clone() *GeneratedContent {
	if g == nil {
		return nil
	}
	out := *g
	out.Tags = append([]string(nil), g.Tags...)
	if g.PublishingStatus.Instagram != nil {
		v := *g.PublishingStatus.Instagram
		out.PublishingStatus.Instagram = &v
	}
	if g.PublishingStatus.YouTube != nil {
		v := *g.PublishingStatus.YouTube
		out.PublishingStatus.YouTube = &v
	}
	if g.Publications != nil {
		out.Publications = make(map[string]Publication, len(g.Publications))
		for k, v := range g.Publications {
			out.Publications[k] = v
		}
	}
	return &out
}

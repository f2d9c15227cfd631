package model

import "testing"

func TestPublishingStatusFlag(t *testing.T) {
	var status PublishingStatus

	if status.Flag(MediumInstagram) {
		t.Error("Flag(instagram) = true on empty status")
	}

	status.Set(MediumInstagram)
	if !status.Flag(MediumInstagram) {
		t.Error("Flag(instagram) = false after Set")
	}
	if status.Flag(MediumYouTubeShorts) {
		t.Error("Flag(youtube_shorts) = true, want false")
	}

	status.Set("tiktok")
	if status.Flag("tiktok") {
		t.Error("Flag(tiktok) = true for unsupported medium")
	}
}

func TestGeneratedContentClone(t *testing.T) {
	orig := &GeneratedContent{
		Caption: "caption",
		Tags:    []string{"a", "b"},
		Publications: map[string]Publication{
			"instagram:@x": {Medium: MediumInstagram, Channel: "@x", PlatformID: "p1"},
		},
	}
	orig.PublishingStatus.Set(MediumInstagram)

	clone := orig.Clone()
	clone.Tags[0] = "changed"
	clone.Publications["youtube_shorts:y"] = Publication{Medium: MediumYouTubeShorts}
	*clone.PublishingStatus.Instagram = false

	if orig.Tags[0] != "a" {
		t.Errorf("Tags[0] = %q, want a", orig.Tags[0])
	}
	if len(orig.Publications) != 1 {
		t.Errorf("len(Publications) = %d, want 1", len(orig.Publications))
	}
	if !orig.PublishingStatus.Flag(MediumInstagram) {
		t.Error("clone mutated original publishing status")
	}

	var nilContent *GeneratedContent
	if nilContent.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestChannelKey(t *testing.T) {
	ch := Channel{Medium: MediumYouTubeShorts, Channel: "channel-id-123"}
	if got := ch.Key(); got != "youtube_shorts:channel-id-123" {
		t.Errorf("Key() = %q", got)
	}
}

func TestSupportedMedium(t *testing.T) {
	tests := []struct {
		medium string
		want   bool
	}{
		{MediumInstagram, true},
		{MediumYouTubeShorts, true},
		{"youtube", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := SupportedMedium(tt.medium); got != tt.want {
			t.Errorf("SupportedMedium(%q) = %v, want %v", tt.medium, got, tt.want)
		}
	}
}

func TestNewMetadata(t *testing.T) {
	m := NewMetadata()
	if m.Views == nil || *m.Views != 0 {
		t.Error("Views should start at 0")
	}
	if m.GeneratedContent != nil {
		t.Error("GeneratedContent should start empty")
	}
}

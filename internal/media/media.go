package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Kind classifies an attachment by the top-level part of its MIME type.
// It is a closed set: anything that is not image, video or audio is
// KindUnsupported and must be rejected before analysis.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindVideo
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unsupported"
	}
}

// Noun is the word used for the kind in the analysis prompt
// ("this image", "this video", "this audio clip").
func (k Kind) Noun() string {
	if k == KindAudio {
		return "audio clip"
	}
	return k.String()
}

// Icon returns the emoji shown for the kind in the history list.
// Audio gets a static icon since Telegram can't inline a player there.
func (k Kind) Icon() string {
	switch k {
	case KindImage:
		return "🖼"
	case KindVideo:
		return "🎬"
	case KindAudio:
		return "🎵"
	default:
		return "❓"
	}
}

// KindFromMIME maps a MIME type to its Kind.
func KindFromMIME(mimeType string) Kind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return KindAudio
	default:
		return KindUnsupported
	}
}

// Attachment is a media blob acquired from an upload or a camera capture,
// together with the metadata needed to send it for analysis and to persist
// it in history.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

func (a Attachment) Kind() Kind {
	return KindFromMIME(a.MIME)
}

// DataURL encodes the attachment as a self-contained data URL, usable for
// re-display without keeping the original bytes around.
func (a Attachment) DataURL() string {
	return DataURL(a.MIME, a.Data)
}

// DataURL builds a base64 data URL from a MIME type and raw bytes.
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// ParseDataURL decodes a data URL produced by DataURL back into its MIME
// type and raw bytes.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL: no payload")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL: not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return mimeType, data, nil
}

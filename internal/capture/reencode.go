package capture

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Reencode decodes an evidence image received over the wire and
// re-encodes it as JPEG at the given quality. It applies the same
// guards as Capture: an undecodable payload fails, and a frame that
// reports zero width or height is refused with ErrEmptyFrame.
func Reencode(data []byte, quality int) ([]byte, error) {
	frame, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode evidence image: %w", err)
	}

	bounds := frame.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptyFrame
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode still: %w", err)
	}

	return buf.Bytes(), nil
}

package dragdata

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Source names where a drag started
type Source string

const (
	SourceBin    Source = "bin"
	SourceCanvas Source = "canvas"
)

// ErrInvalidPayload is returned for payloads that match neither drag shape
var ErrInvalidPayload = errors.New("invalid drag payload")

// Payload is either a BinDrag or a CanvasDrag
type Payload interface {
	Source() Source
}

// BinDrag is a drag that started on a thumbnail in the image bin
type BinDrag struct {
	ImageID string
}

func (BinDrag) Source() Source { return SourceBin }

// CanvasDrag is a drag that started on an occupied slot of the canvas
type CanvasDrag struct {
	SlotID int
}

func (CanvasDrag) Source() Source { return SourceCanvas }

type wire struct {
	Source  Source  `json:"source"`
	ImageID *string `json:"imageId,omitempty"`
	SlotID  *int    `json:"slotId,omitempty"`
}

// Decode parses the JSON drag payload carried across the drag-and-drop channel
func Decode(data []byte) (Payload, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch w.Source {
	case SourceBin:
		if w.ImageID == nil || *w.ImageID == "" {
			return nil, fmt.Errorf("%w: bin drag without imageId", ErrInvalidPayload)
		}
		return BinDrag{ImageID: *w.ImageID}, nil
	case SourceCanvas:
		if w.SlotID == nil || *w.SlotID <= 0 {
			return nil, fmt.Errorf("%w: canvas drag without slotId", ErrInvalidPayload)
		}
		return CanvasDrag{SlotID: *w.SlotID}, nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidPayload, w.Source)
	}
}

// Encode produces the JSON wire form of p
func Encode(p Payload) ([]byte, error) {
	switch v := p.(type) {
	case BinDrag:
		return json.Marshal(wire{Source: SourceBin, ImageID: &v.ImageID})
	case CanvasDrag:
		return json.Marshal(wire{Source: SourceCanvas, SlotID: &v.SlotID})
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrInvalidPayload, p)
	}
}

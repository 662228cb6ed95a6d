package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/edugen/internal/content"
)

// Request bounds.
const (
	MinGrade          = 1
	MaxGrade          = 11
	MinTopicLen       = 3
	MaxTopicLen       = 200
	DefaultSlideCount = 10
	MinSlideCount     = 3
	MaxSlideCount     = 30
)

// Common holds the fields every generation request carries.
type Common struct {
	Subject    content.Subject    `json:"subject"`
	Grade      int                `json:"grade"`
	Topic      string             `json:"topic"`
	Difficulty content.Difficulty `json:"difficulty"`

	// Paid selects the paid model tier.
	Paid bool `json:"paid,omitempty"`
}

func (c Common) validate() error {
	if !c.Subject.Valid() {
		return fmt.Errorf("%w: unknown subject %q", ErrInvalidRequest, c.Subject)
	}
	if c.Grade < MinGrade || c.Grade > MaxGrade {
		return fmt.Errorf("%w: grade %d outside %d..%d", ErrInvalidRequest, c.Grade, MinGrade, MaxGrade)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(c.Topic)); n < MinTopicLen || n > MaxTopicLen {
		return fmt.Errorf("%w: topic length %d outside %d..%d", ErrInvalidRequest, n, MinTopicLen, MaxTopicLen)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, c.Difficulty)
	}
	return nil
}

func (c Common) topic() string { return strings.TrimSpace(c.Topic) }

// WorksheetRequest asks for a worksheet.
type WorksheetRequest struct {
	Common
	Format content.Format `json:"format"`

	// ItemTypes restricts the item types. Empty means the format defaults.
	ItemTypes []content.ItemType `json:"itemTypes,omitempty"`

	// Variant selects one of the format's count variants.
	Variant int `json:"variant"`
}

// Validate checks the request fields.
func (r WorksheetRequest) Validate() error {
	if err := r.Common.validate(); err != nil {
		return err
	}
	switch r.Format {
	case content.FormatTest, content.FormatOpen, content.FormatMixed:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidRequest, r.Format)
	}
	if r.Variant < 0 {
		return fmt.Errorf("%w: negative variant %d", ErrInvalidRequest, r.Variant)
	}
	for _, t := range r.ItemTypes {
		if !t.Known() {
			return fmt.Errorf("%w: unknown item type %q", ErrInvalidRequest, t)
		}
	}
	return nil
}

// PresentationRequest asks for a slide deck.
type PresentationRequest struct {
	Common

	// SlideCount is the number of slides. Zero means the configured default.
	SlideCount int `json:"slideCount,omitempty"`
}

// Validate checks the request fields.
func (r PresentationRequest) Validate() error {
	if err := r.Common.validate(); err != nil {
		return err
	}
	if r.SlideCount != 0 && (r.SlideCount < MinSlideCount || r.SlideCount > MaxSlideCount) {
		return fmt.Errorf("%w: slide count %d outside %d..%d", ErrInvalidRequest, r.SlideCount, MinSlideCount, MaxSlideCount)
	}
	return nil
}

// RegenerateRequest asks for one replacement item.
type RegenerateRequest struct {
	Common
	Type content.ItemType `json:"type"`

	// Replacing is the text of the item being replaced, if any.
	Replacing string `json:"replacing,omitempty"`
}

// Validate checks the request fields.
func (r RegenerateRequest) Validate() error {
	if err := r.Common.validate(); err != nil {
		return err
	}
	if !r.Type.Known() {
		return fmt.Errorf("%w: unknown item type %q", ErrInvalidRequest, r.Type)
	}
	return nil
}

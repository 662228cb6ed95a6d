package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SlideType identifies the layout of a slide.
type SlideType string

const (
	SlideTitle      SlideType = "title"
	SlideContent    SlideType = "content"
	SlideTwoColumn  SlideType = "two_column"
	SlideQuote      SlideType = "quote"
	SlideImage      SlideType = "image"
	SlideConclusion SlideType = "conclusion"
)

func (t SlideType) known() bool {
	switch t {
	case SlideTitle, SlideContent, SlideTwoColumn, SlideQuote, SlideImage, SlideConclusion:
		return true
	}
	return false
}

// Presentation is the final slide-deck artifact.
type Presentation struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// Slide is one slide. Type-specific fields are empty for other types.
type Slide struct {
	Type             SlideType `json:"type"`
	Title            string    `json:"title"`
	Content          []string  `json:"content"`
	Subtitle         string    `json:"subtitle,omitempty"`
	LeftColumn       []string  `json:"leftColumn,omitempty"`
	RightColumn      []string  `json:"rightColumn,omitempty"`
	Quote            string    `json:"quote,omitempty"`
	Author           string    `json:"author,omitempty"`
	ImageDescription string    `json:"imageDescription,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

// Slide warning codes.
const (
	WarnSlideDefaulted = "slide_defaulted"
	WarnSlideFolded    = "slide_folded"
	WarnSlideCount     = "slide_count"
	WarnSlideOrder     = "slide_order"
)

// knownSlideFields are consumed by typed fields and never folded into content.
var knownSlideFields = map[string]bool{
	"type": true, "title": true, "content": true, "subtitle": true,
	"leftColumn": true, "left_column": true, "rightColumn": true, "right_column": true,
	"quote": true, "author": true, "imageDescription": true, "image_description": true,
	"notes": true, "speakerNotes": true, "heading": true, "bullets": true,
	"points": true, "text": true,
}

// NormalizePresentation turns the extracted payload into a Presentation of at
// most want slides. It never rejects the deck: missing fields get safe
// defaults, unrecognized slide types are folded into content slides, and the
// first and last slides are forced to title and conclusion.
func NormalizePresentation(payload json.RawMessage, want int, topic string) (Presentation, []Warning, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Presentation{}, nil, err
	}

	var rawSlides []json.RawMessage
	if raw := firstRaw(envelope, "slides", "items"); raw != nil {
		if err := json.Unmarshal(raw, &rawSlides); err != nil {
			return Presentation{}, nil, fmt.Errorf("slides is not a list: %w", err)
		}
	}

	var warns []Warning
	if want > 0 && len(rawSlides) > want {
		warns = append(warns, Warning{
			Code:    WarnSlideCount,
			Message: fmt.Sprintf("model returned %d slides, truncating to %d", len(rawSlides), want),
		})
		rawSlides = rawSlides[:want]
	} else if len(rawSlides) < want {
		warns = append(warns, Warning{
			Code:    WarnSlideCount,
			Message: fmt.Sprintf("model returned %d slides, requested %d", len(rawSlides), want),
		})
	}

	p := Presentation{
		Title:  firstString(envelope, "title", "presentationTitle", "presentation_title"),
		Slides: make([]Slide, 0, len(rawSlides)),
	}
	for i, raw := range rawSlides {
		s, w := normalizeSlide(raw, i+1)
		warns = append(warns, w...)
		p.Slides = append(p.Slides, s)
	}

	if n := len(p.Slides); n > 0 {
		if p.Slides[0].Type != SlideTitle {
			warns = append(warns, Warning{Code: WarnSlideOrder, Message: fmt.Sprintf("first slide was %q, forcing title", p.Slides[0].Type)})
			p.Slides[0].Type = SlideTitle
		}
		if n >= 2 && p.Slides[n-1].Type != SlideConclusion {
			warns = append(warns, Warning{Code: WarnSlideOrder, Message: fmt.Sprintf("last slide was %q, forcing conclusion", p.Slides[n-1].Type)})
			p.Slides[n-1].Type = SlideConclusion
		}
	}

	if p.Title == "" && len(p.Slides) > 0 {
		p.Title = p.Slides[0].Title
	}
	if p.Title == "" {
		p.Title = topic
	}
	return p, warns, nil
}

func normalizeSlide(raw json.RawMessage, n int) (Slide, []Warning) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		// A bare string becomes a one-line content slide.
		var text string
		_ = json.Unmarshal(raw, &text)
		s := Slide{Type: SlideContent, Title: fmt.Sprintf("Slide %d", n), Content: []string{}}
		if strings.TrimSpace(text) != "" {
			s.Content = append(s.Content, strings.TrimSpace(text))
		}
		return s, []Warning{{Code: WarnSlideDefaulted, Message: fmt.Sprintf("slide %d is not an object", n)}}
	}

	var warns []Warning
	s := Slide{
		Type:             SlideType(strings.ToLower(firstString(f, "type"))),
		Title:            firstString(f, "title", "heading"),
		Content:          coerceContent(firstRaw(f, "content", "bullets", "points", "text")),
		Subtitle:         firstString(f, "subtitle"),
		LeftColumn:       firstStrings(f, "leftColumn", "left_column"),
		RightColumn:      firstStrings(f, "rightColumn", "right_column"),
		Quote:            firstString(f, "quote"),
		Author:           firstString(f, "author"),
		ImageDescription: firstString(f, "imageDescription", "image_description"),
		Notes:            firstString(f, "notes", "speakerNotes"),
	}

	if s.Type == "" {
		s.Type = SlideContent
		warns = append(warns, Warning{Code: WarnSlideDefaulted, Message: fmt.Sprintf("slide %d missing type", n)})
	}
	if s.Title == "" {
		s.Title = fmt.Sprintf("Slide %d", n)
		warns = append(warns, Warning{Code: WarnSlideDefaulted, Message: fmt.Sprintf("slide %d missing title", n)})
	}
	if _, ok := f["content"]; !ok && len(s.Content) == 0 {
		warns = append(warns, Warning{Code: WarnSlideDefaulted, Message: fmt.Sprintf("slide %d missing content", n)})
	}

	if !s.Type.known() {
		warns = append(warns, Warning{Code: WarnSlideFolded, Message: fmt.Sprintf("slide %d type %q folded into content", n, s.Type)})
		s.Content = append(s.Content, foldFields(f)...)
		s.Type = SlideContent
	}
	return s, warns
}

// coerceContent accepts a list, a single string (split on newlines) or
// nothing, and always returns a non-nil slice.
func coerceContent(raw json.RawMessage) []string {
	out := []string{}
	if raw == nil {
		return out
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-*• "))
			if line != "" {
				out = append(out, line)
			}
		}
		return out
	}
	if ss, ok := stringList(raw); ok {
		for _, line := range ss {
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// foldFields collects the string content of fields an unrecognized slide
// type carries, in key order so the result is deterministic.
func foldFields(f map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		if !knownSlideFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		if s := rawString(f[k]); strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
			continue
		}
		if ss, ok := stringList(f[k]); ok {
			for _, line := range ss {
				if line != "" {
					out = append(out, line)
				}
			}
		}
	}
	return out
}

package prompt

import (
	"fmt"
	"strings"
)

const presentationSystemPrompt = `You are a teacher preparing a slide presentation for a lesson.

Rules:
- Respond with a single JSON object and nothing else.
- Shape: {"title": "...", "slides": [{"type": "...", "title": "...", "content": ["...", "..."]}]}.
- Slide types: "title", "content", "two_column" (add "leftColumn" and "rightColumn"), "quote" (add "quote" and "author"), "image" (add "imageDescription"), "conclusion".
- The first slide is "title" and the last slide is "conclusion".
- Each content slide has 3-5 short bullet points suitable for the grade.`

// Presentation builds the slide deck prompt.
func (d Default) Presentation(p PresentationParams) Prompts {
	var b strings.Builder
	writeCommon(&b, p.Common)

	fmt.Fprintf(&b, "\nCreate a presentation with exactly %d slides.\n", p.SlideCount)
	b.WriteString("Slide 1 must have type \"title\"")
	if p.SlideCount >= 2 {
		fmt.Fprintf(&b, " and slide %d must have type \"conclusion\"", p.SlideCount)
	}
	b.WriteString(".\nAdd short speaker notes in \"notes\" where helpful.")

	return Prompts{System: presentationSystemPrompt, User: b.String()}
}

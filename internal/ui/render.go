package ui

import (
	"fmt"
	"strings"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/ui/theme"
)

// RenderWorksheet formats a worksheet for the terminal. The answer key is
// appended when answers is set.
func RenderWorksheet(title string, ws content.Worksheet, answers bool) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")

	if len(ws.TestQuestions) > 0 {
		b.WriteString(theme.Section.Render("Test"))
		b.WriteString("\n")
		for i, q := range ws.TestQuestions {
			fmt.Fprintf(&b, "\n%s %s\n", theme.Label.Render(fmt.Sprintf("%d.", i+1)), theme.Body.Render(q.Question))
			for j, o := range q.Options {
				fmt.Fprintf(&b, "   %s) %s\n", content.Letter(j), o)
			}
		}
	}

	if len(ws.Assignments) > 0 {
		b.WriteString(theme.Section.Render("Assignments"))
		b.WriteString("\n")
		for _, a := range ws.Assignments {
			fmt.Fprintf(&b, "\n%s\n%s\n", theme.Label.Render(a.Title), theme.Body.Render(a.Text))
		}
	}

	if answers {
		b.WriteString(theme.Section.Render("Answer key"))
		b.WriteString("\n")
		for i, a := range ws.Answers.TestAnswers {
			fmt.Fprintf(&b, "%d. %s\n", i+1, renderAnswer(a))
		}
		for i, a := range ws.Answers.AssignmentAnswers {
			fmt.Fprintf(&b, "Task %d: %s\n", i+1, renderAnswer(a))
		}
	}
	return b.String()
}

// RenderPresentation formats a slide deck as an outline.
func RenderPresentation(p content.Presentation) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(p.Title))
	b.WriteString("\n")

	for i, s := range p.Slides {
		heading := fmt.Sprintf("%d. %s", i+1, s.Title)
		fmt.Fprintf(&b, "\n%s %s\n", theme.Label.Render(heading), theme.Hint.Render("["+string(s.Type)+"]"))
		if s.Subtitle != "" {
			fmt.Fprintf(&b, "   %s\n", s.Subtitle)
		}
		for _, c := range s.Content {
			fmt.Fprintf(&b, "   • %s\n", c)
		}
		writeColumn(&b, "Left", s.LeftColumn)
		writeColumn(&b, "Right", s.RightColumn)
		if s.Quote != "" {
			fmt.Fprintf(&b, "   %q", s.Quote)
			if s.Author != "" {
				fmt.Fprintf(&b, " (%s)", s.Author)
			}
			b.WriteString("\n")
		}
		if s.ImageDescription != "" {
			fmt.Fprintf(&b, "   %s\n", theme.Hint.Render("image: "+s.ImageDescription))
		}
		if s.Notes != "" {
			fmt.Fprintf(&b, "   %s\n", theme.Hint.Render("notes: "+s.Notes))
		}
	}
	return b.String()
}

// RenderItem formats a single regenerated item with its answer.
func RenderItem(it content.Item, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", theme.Hint.Render(string(it.Type)))
	switch it.Family() {
	case content.FamilySelection:
		b.WriteString(theme.Body.Render(it.Text()))
		b.WriteString("\n")
		for j, o := range it.Options() {
			fmt.Fprintf(&b, "   %s) %s\n", content.Letter(j), o)
		}
	default:
		b.WriteString(theme.Body.Render(content.AssignmentText(it)))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s %s\n", theme.Label.Render("Answer:"), renderAnswer(answer))
	return b.String()
}

func writeColumn(b *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "   %s\n", theme.Label.Render(name))
	for _, it := range items {
		fmt.Fprintf(b, "     - %s\n", it)
	}
}

func renderAnswer(a string) string {
	if strings.TrimSpace(a) == "" {
		return theme.Warning.Render("(no answer)")
	}
	return theme.Answer.Render(a)
}

package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warningCodes(ws []Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

func TestNormalizePresentation_WellFormed(t *testing.T) {
	payload := json.RawMessage(`{"title": "Photosynthesis", "slides": [
		{"type": "title", "title": "Photosynthesis", "content": ["How plants eat"]},
		{"type": "content", "title": "Inputs", "content": ["Light", "Water", "CO2"]},
		{"type": "conclusion", "title": "Summary", "content": ["Plants make sugar"]}
	]}`)

	p, warns, err := NormalizePresentation(payload, 3, "photosynthesis")
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, "Photosynthesis", p.Title)
	require.Len(t, p.Slides, 3)
	assert.Equal(t, []string{"Light", "Water", "CO2"}, p.Slides[1].Content)
}

func TestNormalizePresentation_MissingTitleAndContent(t *testing.T) {
	payload := json.RawMessage(`{"slides": [
		{"type": "title", "title": "Intro", "content": []},
		{"type": "content"},
		{"type": "conclusion", "title": "End", "content": "one\n- two"}
	]}`)

	p, warns, err := NormalizePresentation(payload, 3, "topic")
	require.NoError(t, err)
	require.Len(t, p.Slides, 3)

	mid := p.Slides[1]
	assert.Equal(t, "Slide 2", mid.Title)
	assert.NotNil(t, mid.Content)
	assert.Empty(t, mid.Content)
	assert.Equal(t, SlideContent, mid.Type)
	assert.Equal(t, []string{"one", "two"}, p.Slides[2].Content)
	assert.Contains(t, warningCodes(warns), WarnSlideDefaulted)
	assert.Equal(t, "Intro", p.Title)
}

func TestNormalizePresentation_FoldsUnknownTypes(t *testing.T) {
	payload := json.RawMessage(`{"slides": [
		{"type": "title", "title": "T"},
		{"type": "timeline", "title": "History", "events": ["1905: relativity", "1915: general relativity"]},
		{"title": "No type", "content": ["x"]},
		{"type": "conclusion", "title": "End", "content": []}
	]}`)

	p, warns, err := NormalizePresentation(payload, 4, "physics")
	require.NoError(t, err)
	require.Len(t, p.Slides, 4)
	assert.Equal(t, SlideContent, p.Slides[1].Type)
	assert.Equal(t, []string{"1905: relativity", "1915: general relativity"}, p.Slides[1].Content)
	assert.Equal(t, SlideContent, p.Slides[2].Type)
	assert.Contains(t, warningCodes(warns), WarnSlideFolded)
}

func TestNormalizePresentation_ForcesFirstAndLast(t *testing.T) {
	payload := json.RawMessage(`{"slides": [
		{"type": "content", "title": "A", "content": []},
		{"type": "content", "title": "B", "content": []}
	]}`)
	p, warns, err := NormalizePresentation(payload, 2, "t")
	require.NoError(t, err)
	assert.Equal(t, SlideTitle, p.Slides[0].Type)
	assert.Equal(t, SlideConclusion, p.Slides[1].Type)
	assert.Contains(t, warningCodes(warns), WarnSlideOrder)
}

func TestNormalizePresentation_CountMismatch(t *testing.T) {
	payload := json.RawMessage(`{"slides": [{"type":"title","title":"a","content":[]},{"type":"content","title":"b","content":[]},{"type":"content","title":"c","content":[]},{"type":"conclusion","title":"d","content":[]}]}`)

	p, _, err := NormalizePresentation(payload, 3, "t")
	require.NoError(t, err)
	assert.Len(t, p.Slides, 3)
	assert.Equal(t, SlideConclusion, p.Slides[2].Type)

	p, warns, err := NormalizePresentation(payload, 6, "t")
	require.NoError(t, err)
	assert.Len(t, p.Slides, 4)
	assert.Contains(t, warningCodes(warns), WarnSlideCount)
}

func TestNormalizePresentation_EmptyFallsBackToTopic(t *testing.T) {
	p, _, err := NormalizePresentation(json.RawMessage(`{}`), 5, "Volcanoes")
	require.NoError(t, err)
	assert.Equal(t, "Volcanoes", p.Title)
	assert.Empty(t, p.Slides)
}

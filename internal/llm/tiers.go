package llm

// Tiers maps the request tier to a model name. An empty name means the
// provider's configured model.
type Tiers struct {
	Free string `yaml:"free"`
	Paid string `yaml:"paid"`
}

// SelectModel returns the model for the given tier. Paid requests fall
// back to the free model when no paid model is configured.
func (t Tiers) SelectModel(paid bool) string {
	if paid && t.Paid != "" {
		return t.Paid
	}
	return t.Free
}

package domain

// GenerationRequest describes one call to the external word generator.
type GenerationRequest struct {
	Language       Language
	NativeLanguage Language
	Level          Level
	Count          int

	// Exclude lists words the learner already has, so the generator can
	// avoid producing them. Consumers may send only a bounded sample.
	Exclude []string
}

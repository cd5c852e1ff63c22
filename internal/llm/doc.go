// Package llm adapts multimodal language models into a crop image classifier.
// It supports OpenAI, Anthropic and Gemini backends behind one Client
// interface, and wraps them in a Classifier that never lets a model failure
// escape as an error: every call ends in a model.Outcome.
package llm

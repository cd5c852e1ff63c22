package llm

import "fmt"

const defaultLabelLanguage = "Korean"

// visionRequest is one provider-neutral image + instruction request.
type visionRequest struct {
	System    string
	User      string
	Image     Image
	MaxTokens int
}

func classificationSystemPrompt(language string) string {
	return fmt.Sprintf(`You are an expert in identifying agricultural crops from photographs.
Judge ONLY what is visible in the image. Never use the file name or any other metadata.
You MUST respond with ONLY a single JSON object of this exact shape:
{"category": "<crop name in %[1]s>", "confidence": <number between 0.0 and 1.0>}

Rules:
- "category": the common %[1]s name of the crop, e.g. the everyday word for apple, strawberry, tomato, chili pepper or grape
- "confidence": how certain you are, as a decimal fraction between 0.0 and 1.0
- No explanations, no markdown, no code fences, no keys other than "category" and "confidence"`, language)
}

func classificationUserPrompt(language string) string {
	return fmt.Sprintf("Identify the crop in this image. Return only the JSON object with the crop name in %s and your confidence.", language)
}

func profileSystemPrompt(language string) string {
	return fmt.Sprintf(`You are an agricultural expert. Look at the image and describe the crop it shows.
Judge ONLY what is visible in the image. Respond with ONLY one JSON object of this shape:
{
  "name": "crop name in %[1]s",
  "name_en": "crop name in English",
  "confidence": 0.95,
  "category": "fruit, vegetable, grain, ...",
  "famous_regions": ["well known growing region", "another region", "a third region"],
  "season": "harvest season, e.g. May to August",
  "nutrition": "short note on the main nutrients",
  "storage": "short note on how to store it",
  "taste": "short note on its flavor"
}
Write every free-text value in %[1]s. Do not use markdown or code fences.`, language)
}

func profileUserPrompt() string {
	return "Analyze the crop in this image and return the JSON object."
}

func languageOrDefault(language string) string {
	if language == "" {
		return defaultLabelLanguage
	}
	return language
}

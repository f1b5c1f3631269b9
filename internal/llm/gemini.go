package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

const geminiModel = "gemini-3-flash-preview"

// Gemini pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.50
	geminiOutputPricePerMillion = 3.00
)

const systemInstruction = `You are an expert in dog behavior, specializing in bulldogs (English Bulldog, French Bulldog, American Bulldog).

The user gives you a photo, video or audio clip of their bulldog, sometimes with extra context. Interpret what the dog is doing and why.

Respond with a JSON object with exactly these fields:
- behavior: a short label for the observed behavior (e.g. "Comfort Seeking", "Play Bow", "Heat Stress Panting")
- explanation: what the dog is likely communicating or experiencing, in plain language a first-time owner understands (2-4 sentences)
- tip: one concrete, actionable thing the owner should do in response

Ground the interpretation in what is actually visible or audible. If the behavior could indicate a health problem common in brachycephalic breeds (breathing trouble, overheating, skin issues), say so in the explanation and make the tip about when to involve a vet.`

const analysisPromptTemplate = `Analyze the bulldog's behavior in this %s. Additional context from the owner: "%s".`

// interpretationSchema constrains the response to a JSON object with the
// three required string fields.
var interpretationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"behavior": {
			Type:        genai.TypeString,
			Description: "Short label for the observed behavior",
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "What the dog is likely communicating or experiencing",
		},
		"tip": {
			Type:        genai.TypeString,
			Description: "One actionable suggestion for the owner",
		},
	},
	Required:         []string{"behavior", "explanation", "tip"},
	PropertyOrdering: []string{"behavior", "explanation", "tip"},
}

// GeminiAnalyzer implements Analyzer using Google's Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer authenticated with the
// given API key.
func NewGeminiAnalyzer(ctx context.Context, apiKey string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client}, nil
}

// Analyze implements the Analyzer interface.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, att media.Attachment, ownerContext string) (*Interpretation, error) {
	kind := att.Kind()
	if kind == media.KindUnsupported {
		return nil, fmt.Errorf("unsupported media type: %s", att.MIME)
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: att.Data, MIMEType: att.MIME}},
		genai.NewPartFromText(buildAnalysisPrompt(kind, ownerContext)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    interpretationSchema,
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	interp, err := parseInterpretation(result.Text())
	if err != nil {
		return nil, err
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateGeminiCost(usage.InputTokens, usage.OutputTokens)
	}

	log.Info().
		Str("model", geminiModel).
		Str("mediaKind", kind.String()).
		Int("mediaBytes", len(att.Data)).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Str("behavior", interp.Behavior).
		Msg("behavior analysis llm call")

	return interp, nil
}

// buildAnalysisPrompt fills the templated user-turn text. An empty owner
// context becomes the literal "None".
func buildAnalysisPrompt(kind media.Kind, ownerContext string) string {
	ownerContext = strings.TrimSpace(ownerContext)
	if ownerContext == "" {
		ownerContext = "None"
	}
	return fmt.Sprintf(analysisPromptTemplate, kind.Noun(), ownerContext)
}

func calculateGeminiCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * geminiInputPricePerMillion
	outputCost := float64(outputTokens) / 1_000_000 * geminiOutputPricePerMillion
	return inputCost + outputCost
}

// extractJSONObject extracts a JSON object from text that may contain
// markdown code blocks or other formatting around it.
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response: %s", text)
	}
	return text[start : end+1], nil
}

// parseInterpretation parses and validates the response text. The schema is
// requested from the endpoint, but the shape is still verified here: all
// three fields must be present, strings, and non-empty.
func parseInterpretation(text string) (*Interpretation, error) {
	jsonStr, err := extractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	var interp Interpretation
	if err := json.Unmarshal([]byte(jsonStr), &interp); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w (response: %s)", err, jsonStr)
	}

	if strings.TrimSpace(interp.Behavior) == "" ||
		strings.TrimSpace(interp.Explanation) == "" ||
		strings.TrimSpace(interp.Tip) == "" {
		return nil, fmt.Errorf("response missing required fields (response: %s)", jsonStr)
	}
	return &interp, nil
}

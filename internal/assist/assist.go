// Package assist wraps the generative-language API behind three
// operations: natural-language search parsing, image-based part
// identification, and the support chat. Every failure degrades to a
// no-change value; nothing in this package is fatal to the caller.
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"autopart/models"
)

const (
	defaultSearchModel = "gemini-3-flash-preview"
	defaultVisionModel = "gemini-2.5-flash-image"
	defaultChatModel   = "gemini-3-flash-preview"

	chatSystemInstruction = "You are an expert automotive virtual assistant. " +
		"Provide helpful, accurate, and safety-conscious advice for car part " +
		"installation and identification. Keep answers concise."
)

// User-facing fallback strings, matching the storefront copy.
const (
	IdentifyFallback = "Could not identify part."
	ChatEmptyReply   = "Sorry, I encountered an error."
	ChatErrorReply   = "An error occurred while connecting to the AI."
)

// ErrNotConfigured is returned by every remote call when no API key was
// provided. The adapter still constructs so the rest of the storefront
// works, with AI features degrading the same way a network failure would.
var ErrNotConfigured = errors.New("assist: no API key configured")

type Config struct {
	APIKey      string
	SearchModel string
	VisionModel string
	ChatModel   string
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)

// Adapter is the boundary to the external model API.
type Adapter struct {
	client   *genai.Client
	cfg      Config
	log      *logrus.Logger
	generate generateFunc
}

func New(ctx context.Context, cfg Config, log *logrus.Logger) (*Adapter, error) {
	if cfg.SearchModel == "" {
		cfg.SearchModel = defaultSearchModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaultVisionModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}

	a := &Adapter{cfg: cfg, log: log}
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, AI assist features disabled")
		a.generate = func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
			return "", ErrNotConfigured
		}
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	a.client = client
	a.generate = a.callModel
	return a, nil
}

func (a *Adapter) callModel(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// ParseSearchQuery turns a free-text parts query into a structured intent.
// Returns nil on empty input, transport failure, or an unparseable
// response body; the caller must leave its current filters untouched on
// nil.
func (a *Adapter) ParseSearchQuery(ctx context.Context, query string) *models.SearchIntent {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	prompt := fmt.Sprintf(`Parse the following car parts search query into JSON: %q. `+
		`Expected JSON keys: "make", "model", "year", "partType", "urgency". `+
		`If any part is missing, use null.`, query)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"make":     {Type: genai.TypeString},
				"model":    {Type: genai.TypeString},
				"year":     {Type: genai.TypeNumber},
				"partType": {Type: genai.TypeString},
				"urgency":  {Type: genai.TypeString},
			},
		},
	}

	text, err := a.generate(ctx, a.cfg.SearchModel, genai.Text(prompt), cfg)
	if err != nil {
		a.log.WithError(err).Warn("search query parse call failed")
		return nil
	}

	var intent models.SearchIntent
	if err := json.Unmarshal([]byte(text), &intent); err != nil {
		a.log.WithError(err).Warn("search query response was not valid JSON")
		return nil
	}
	return &intent
}

// IdentifyPart asks the vision model to name the part in the image.
// Returns "" on failure or empty input; the caller shows its own
// could-not-identify message instead of a blank result.
func (a *Adapter) IdentifyPart(ctx context.Context, image []byte, mimeType string) string {
	if len(image) == 0 {
		return ""
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText("Identify this car part and suggest what it might be used for. Be concise."),
		}, genai.RoleUser),
	}

	text, err := a.generate(ctx, a.cfg.VisionModel, contents, nil)
	if err != nil {
		a.log.WithError(err).Warn("part identification call failed")
		return ""
	}
	return strings.TrimSpace(text)
}

// Chat sends one conversation turn. The caller keeps its log regardless
// of the outcome and substitutes the fixed apology strings on error or
// empty reply.
func (a *Adapter) Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == models.ChatRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemInstruction, genai.RoleUser),
	}

	text, err := a.generate(ctx, a.cfg.ChatModel, contents, cfg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

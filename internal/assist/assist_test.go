package assist

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"autopart/models"
)

// newTestAdapter wires a canned generate func in place of the remote API.
func newTestAdapter(t *testing.T, generate generateFunc) *Adapter {
	t.Helper()
	log := logrus.New()
	a, err := New(context.Background(), Config{}, log)
	require.NoError(t, err)
	a.generate = generate
	return a
}

func TestParseSearchQuery_Success(t *testing.T) {
	var gotModel string
	a := newTestAdapter(t, func(_ context.Context, model string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		gotModel = model
		assert.Equal(t, "application/json", cfg.ResponseMIMEType)
		return `{"make":"Toyota","model":"Camry","year":2019,"partType":"Brakes","urgency":null}`, nil
	})

	intent := a.ParseSearchQuery(context.Background(), "brake pads for a 2019 toyota camry")

	require.NotNil(t, intent)
	assert.Equal(t, defaultSearchModel, gotModel)
	assert.Equal(t, "Toyota", intent.Make)
	assert.Equal(t, "Camry", intent.Model)
	assert.Equal(t, 2019, intent.Year)
	assert.Equal(t, "Brakes", intent.PartType)
}

func TestParseSearchQuery_TransportFailure(t *testing.T) {
	a := newTestAdapter(t, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
		return "", errors.New("connection reset")
	})

	assert.Nil(t, a.ParseSearchQuery(context.Background(), "brake pads"))
}

func TestParseSearchQuery_MalformedBody(t *testing.T) {
	a := newTestAdapter(t, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
		return "sure! here is your JSON:", nil
	})

	assert.Nil(t, a.ParseSearchQuery(context.Background(), "brake pads"))
}

func TestParseSearchQuery_EmptyQuerySkipsCall(t *testing.T) {
	called := false
	a := newTestAdapter(t, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
		called = true
		return "{}", nil
	})

	assert.Nil(t, a.ParseSearchQuery(context.Background(), "   "))
	assert.False(t, called, "empty input must not reach the remote API")
}

func TestIdentifyPart(t *testing.T) {
	a := newTestAdapter(t, func(_ context.Context, model string, _ []*genai.Content, _ *genai.GenerateContentConfig) (string, error) {
		assert.Equal(t, defaultVisionModel, model)
		return "This is an alternator. It charges the battery.\n", nil
	})

	desc := a.IdentifyPart(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	assert.Equal(t, "This is an alternator. It charges the battery.", desc)
}

func TestIdentifyPart_FailureAndEmptyInput(t *testing.T) {
	a := newTestAdapter(t, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
		return "", errors.New("timeout")
	})

	assert.Empty(t, a.IdentifyPart(context.Background(), []byte{0x01}, "image/png"))
	assert.Empty(t, a.IdentifyPart(context.Background(), nil, ""))
}

func TestChat_SendsHistoryAndNewMessage(t *testing.T) {
	a := newTestAdapter(t, func(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		require.NotNil(t, cfg.SystemInstruction)
		require.Len(t, contents, 3)
		return "Use a 14mm socket.", nil
	})

	history := []models.ChatMessage{
		{Role: models.ChatRoleModel, Text: "Hello!"},
		{Role: models.ChatRoleUser, Text: "How do I change a spark plug?"},
	}

	reply, err := a.Chat(context.Background(), history, "Which socket size?")
	require.NoError(t, err)
	assert.Equal(t, "Use a 14mm socket.", reply)
}

func TestChat_Failure(t *testing.T) {
	a := newTestAdapter(t, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (string, error) {
		return "", errors.New("quota exceeded")
	})

	_, err := a.Chat(context.Background(), nil, "hello")
	assert.Error(t, err)
}

func TestNew_WithoutAPIKeyDegrades(t *testing.T) {
	a, err := New(context.Background(), Config{}, logrus.New())
	require.NoError(t, err)

	assert.Nil(t, a.ParseSearchQuery(context.Background(), "brake pads"))
	assert.Empty(t, a.IdentifyPart(context.Background(), []byte{0x01}, ""))

	_, err = a.Chat(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

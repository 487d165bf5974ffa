package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pentacore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestRoundSeconds(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want float64
	}{
		{0, 0},
		{-time.Second, 0},
		{1234 * time.Millisecond, 1.23},
		{1235 * time.Millisecond, 1.24},
		{2345 * time.Millisecond, 2.35},
		{1005 * time.Millisecond, 1.01},
		{1004999 * time.Microsecond, 1},
		{999 * time.Microsecond, 0},
		{12 * time.Second, 12},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, roundSeconds(c.in), "duration %v", c.in)
	}
}

func TestFirstInlineImage(t *testing.T) {
	var nilResp *ImageResponse
	_, ok := nilResp.FirstInlineImage()
	assert.False(t, ok)

	_, ok = (&ImageResponse{}).FirstInlineImage()
	assert.False(t, ok)

	resp := &ImageResponse{Candidates: []ImageCandidate{
		{Parts: []ContentPart{{Text: "a"}, {MIMEType: "image/png"}}},
		{Parts: []ContentPart{{Data: []byte("x")}}},
		{Parts: []ContentPart{{Data: []byte("y")}}},
	}}
	data, ok := resp.FirstInlineImage()
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), data)
}

func TestImageResponseFromGemini(t *testing.T) {
	assert.Empty(t, imageResponseFromGemini(nil).Candidates)

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "caption"}}}},
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{
				nil,
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("img")}},
			}}},
		},
	}

	out := imageResponseFromGemini(resp)

	require.Len(t, out.Candidates, 3)
	assert.Equal(t, "caption", out.Candidates[0].Parts[0].Text)
	assert.Empty(t, out.Candidates[1].Parts)
	require.Len(t, out.Candidates[2].Parts, 1)
	assert.Equal(t, "image/png", out.Candidates[2].Parts[0].MIMEType)

	data, ok := out.FirstInlineImage()
	assert.True(t, ok)
	assert.Equal(t, []byte("img"), data)
}

func TestGeminiClient(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["contents"])

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/models/text-model:generateContent"):
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"once upon a time"}]}}],
				"usageMetadata":{"promptTokenCount":9}}`))
		case strings.HasSuffix(r.URL.Path, "/models/image-model:generateContent"):
			genCfg, ok := body["generationConfig"].(map[string]any)
			if assert.True(t, ok, "generationConfig is missing") {
				assert.Equal(t, []any{"IMAGE"}, genCfg["responseModalities"])
			}
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
				{"text":"here you go"},
				{"inlineData":{"mimeType":"image/png","data":"` + base64.StdEncoding.EncodeToString(png) + `"}}]}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := newGeminiClient(context.Background(), "k", srv.URL, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	text, err := c.GenerateText(context.Background(), "text-model", "write")
	require.NoError(t, err)
	assert.Equal(t, "once upon a time", text)

	img, err := c.GenerateImage(context.Background(), "image-model", "draw")
	require.NoError(t, err)
	data, ok := img.FirstInlineImage()
	assert.True(t, ok)
	assert.Equal(t, png, data)
}

func TestGeminiClient_ErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad prompt","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	c, err := newGeminiClient(context.Background(), "k", srv.URL, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	_, err = c.GenerateImage(context.Background(), "image-model", "draw")
	assert.ErrorIs(t, err, ErrAIGenerationFailed)
}

func TestOpenAIClient(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/chat/completions":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gpt-test", body["model"])
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
				"choices":[{"index":0,"message":{"role":"assistant","content":"  generated  "},"finish_reason":"stop"}],
				"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
		case "/v1/images/generations":
			_, _ = w.Write([]byte(`{"created":1,"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(png) + `"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newOpenAIClient("sk-test", srv.URL+"/v1", srv.Client(), zap.NewNop())

	text, err := c.GenerateText(context.Background(), "gpt-test", "write")
	require.NoError(t, err)
	assert.Equal(t, "  generated  ", text)

	img, err := c.GenerateImage(context.Background(), "dall-e-test", "draw")
	require.NoError(t, err)
	data, ok := img.FirstInlineImage()
	assert.True(t, ok)
	assert.Equal(t, png, data)
}

func TestOpenAIClient_ErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := newOpenAIClient("sk-test", srv.URL+"/v1", srv.Client(), zap.NewNop())

	_, err := c.GenerateText(context.Background(), "gpt-test", "write")
	assert.ErrorIs(t, err, ErrAIGenerationFailed)
}

func TestOllamaClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-test", body["model"])
		assert.Equal(t, false, body["stream"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama-test","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"a poem"},"done":true,"prompt_eval_count":7,"eval_count":3}` + "\n"))
	}))
	defer srv.Close()

	c, err := newOllamaClient(srv.URL+"/v1/", srv.Client(), zap.NewNop())
	require.NoError(t, err)

	text, err := c.GenerateText(context.Background(), "llama-test", "write")
	require.NoError(t, err)
	assert.Equal(t, "a poem", text)

	resp, err := c.GenerateImage(context.Background(), "llama-test", "draw")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrImageUnsupported)
}

func TestNewAIClients(t *testing.T) {
	base := config.AIConfig{APIKey: "k", Timeout: time.Second}

	t.Run("openai", func(t *testing.T) {
		cfg := base
		cfg.Provider = config.ProviderOpenAI
		text, image, err := NewAIClients(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &openAIClient{}, text)
		assert.IsType(t, &openAIClient{}, image)
	})

	t.Run("ollama", func(t *testing.T) {
		cfg := base
		cfg.Provider = config.ProviderOllama
		text, image, err := NewAIClients(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &ollamaClient{}, text)
		assert.IsType(t, &ollamaClient{}, image)
	})

	t.Run("gemini", func(t *testing.T) {
		cfg := base
		cfg.Provider = config.ProviderGemini
		text, image, err := NewAIClients(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &geminiClient{}, text)
		assert.IsType(t, &geminiClient{}, image)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := base
		cfg.Provider = "skynet"
		_, _, err := NewAIClients(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

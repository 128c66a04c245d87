// Package server exposes the trained model over HTTP. The model handle is
// constructed once at startup and shared read-only by every request;
// there is no lazily loaded global state.
package server

import (
	"log"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	trigram_lm "github.com/qalam/trigram_lm"
)

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	// Prefix is the text to continue from. May be empty, in which case
	// generation starts from the beginning-of-sequence context.
	Prefix string `json:"prefix"`
	// MaxLength bounds the total token count, 1..2000. Defaults to 500.
	MaxLength int `json:"max_length"`
	// Temperature is the sampling temperature, 0.1..2.0. Defaults to 0.9.
	Temperature float64 `json:"temperature"`
	// RandomSeed makes generation reproducible when set.
	RandomSeed *int64 `json:"random_seed"`
}

type GenerateResponse struct {
	GeneratedText string `json:"generated_text"`
	NumTokens     int    `json:"num_tokens"`
	StoppedAtEot  bool   `json:"stopped_at_eot"`
}

const (
	defaultMaxLength   = 500
	maxMaxLength       = 2000
	defaultTemperature = 0.9
	minTemperature     = 0.1
	maxTemperature     = 2.0
)

type Server struct {
	model *trigram_lm.Model
	codec *trigram_lm.Codec
}

func New(model *trigram_lm.Model, codec *trigram_lm.Codec) *Server {
	return &Server{model: model, codec: codec}
}

var whitespaceRunPat = regexp.MustCompile(`\s+`)

// RenderText translates the generated token sequence into user-facing
// text: sentence markers become the Urdu full stop, paragraph markers a
// blank line, and the remaining markers are dropped.
func RenderText(codec *trigram_lm.Codec, tokens []string) string {
	rendered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		switch token {
		case trigram_lm.MarkerEOS:
			rendered = append(rendered, "۔")
		case trigram_lm.MarkerEOP:
			rendered = append(rendered, "\n\n")
		case trigram_lm.MarkerBOS, trigram_lm.MarkerEOT:
		default:
			rendered = append(rendered, token)
		}
	}
	text := codec.Decode(rendered)
	text = whitespaceRunPat.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// seedFromPrefix tokenizes the request prefix into a seed context. A
// single-token prefix is padded with a leading BOS so the model always
// sees a two-token context.
func (s *Server) seedFromPrefix(prefix string) []string {
	tokens := s.codec.Encode(prefix)
	switch len(tokens) {
	case 0:
		return nil
	case 1:
		return []string{trigram_lm.MarkerBOS, tokens[0]}
	default:
		return tokens
	}
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.MaxLength == 0 {
		req.MaxLength = defaultMaxLength
	}
	if req.Temperature == 0 {
		req.Temperature = defaultTemperature
	}
	if req.MaxLength < 1 || req.MaxLength > maxMaxLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "max_length must be between 1 and 2000"})
		return
	}
	if req.Temperature < minTemperature || req.Temperature > maxTemperature {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "temperature must be between 0.1 and 2.0"})
		return
	}

	requestId := uuid.NewString()
	c.Header("X-Request-Id", requestId)

	seed := s.seedFromPrefix(req.Prefix)
	generated := s.model.Generate(seed, req.MaxLength, req.Temperature,
		req.RandomSeed)

	stoppedAtEot := len(generated) > 0 &&
		generated[len(generated)-1] == trigram_lm.MarkerEOT
	numTokens := 0
	for _, token := range generated {
		if token != trigram_lm.MarkerBOS {
			numTokens++
		}
	}
	log.Printf("generate %s: %d tokens, eot=%v", requestId,
		len(generated), stoppedAtEot)

	c.JSON(http.StatusOK, GenerateResponse{
		GeneratedText: RenderText(s.codec, generated),
		NumTokens:     numTokens,
		StoppedAtEot:  stoppedAtEot,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": s.model != nil,
		"vocab_size":   s.model.VocabSize,
	})
}

// Routes builds the gin engine with CORS enabled for browser frontends.
func (s *Server) Routes() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "trigram language model API",
		})
	})
	r.GET("/health", s.handleHealth)
	r.POST("/generate", s.handleGenerate)
	return r
}

// Serve runs the HTTP API on the given listener until it fails.
func Serve(ln net.Listener, model *trigram_lm.Model,
	codec *trigram_lm.Codec) error {
	s := New(model, codec)
	return http.Serve(ln, s.Routes())
}

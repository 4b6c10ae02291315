package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"
	"github.com/gkotua/jobradar/internal/taxonomy"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor asks Gemini to turn a chat message into structured search
// requirements. The reply is coerced and normalized so a successful
// extraction always satisfies the fully-populated invariant.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger.NopIfNil(log),
		maxLogLen: maxLogLength,
	}
}

func (e *Extractor) Extract(ctx context.Context, message string) (*jobs.Requirements, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	prompt := buildPrompt(message)

	e.logger.Debug("gemini extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(message string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Message:\n{{MESSAGE}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{MESSAGE}}", message)
}

func parseResponse(raw string) (*jobs.Requirements, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	// The model sometimes returns a comma-joined string where a list was
	// asked for; coerce before decoding.
	data["keywords"] = coerceStringList(data["keywords"])
	data["skills"] = coerceStringList(data["skills"])

	var req jobs.Requirements
	cfg := &mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build requirements decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode requirements: %w", err)
	}

	req.ExperienceLevel = normalizeEnum(req.ExperienceLevel, taxonomy.LevelEntry, taxonomy.LevelMid, taxonomy.LevelSenior)
	req.JobType = normalizeEnum(req.JobType, taxonomy.TypeFullTime, taxonomy.TypePartTime, taxonomy.TypeContract, taxonomy.TypeRemote)
	req.Normalize()

	return &req, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s := strings.TrimSpace(fmt.Sprintf("%v", item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		fields := strings.FieldsFunc(val, func(r rune) bool { return r == ',' })
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out
	default:
		return []string{}
	}
}

// normalizeEnum lowers the value and falls back to "any" when it is not one
// of the allowed identifiers.
func normalizeEnum(value string, allowed ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	return taxonomy.LevelAny
}

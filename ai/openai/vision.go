// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/lexingest/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// newVisionClient creates an OpenAI-compatible chat client configured for
// page-level extraction with a vision-capable model.
func newVisionClient(config *ai.Config) (llms.Model, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	return openai.New(
		openai.WithBaseURL(config.VisionHost),
		openai.WithToken("none"),
		openai.WithModel(config.VisionModel),
	)
}

// generateJSON sends a page image plus an instruction to the vision model and
// unmarshals the JSON response into out. Malformed responses are repaired and
// retried up to 3 times before the last parse error is returned.
func generateJSON(ctx context.Context, client llms.Model, logger *slog.Logger,
	systemPrompt, instruction string, image []byte, mimeType string, out any) error {

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, image),
				llms.TextPart(instruction),
			},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		response, err := client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			logger.Debug("no choices returned from model")
			return fmt.Errorf("vision model returned no choices")
		}

		responseText := cleanResponse(response.Choices[0].Content)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing vision response",
				"attempt", attempt,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	return fmt.Errorf("unparseable vision response after 3 attempts: %w", lastErr)
}

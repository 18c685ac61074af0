// Package token computes tokenizer-specific costs of text and messages.
//
// Counting sits on every hot path, so it is total: when the exact model
// tokenizer is unavailable it falls back to a generic byte-pair encoding,
// and when that fails too, to a bytes/3 estimate. It never returns an error.
package token

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/model"
)

// messageOverhead is the fixed per-message structural cost of the chat
// format (role framing and separators), calibrated for ChatML-style models.
const messageOverhead = 6

// Counter measures token costs under one model's tokenization.
type Counter struct {
	modelName string
	enc       *tiktoken.Tiktoken
}

// NewCounter creates a counter for the given model. Tokenizer resolution
// failures degrade rather than error.
func NewCounter(modelName string) *Counter {
	log := logrus.WithField("component", "token")

	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		log.WithField("model", modelName).Debug("no exact tokenizer, trying cl100k_base")
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.WithError(err).Warn("tokenizer unavailable, using byte estimate")
			enc = nil
		}
	}
	return &Counter{modelName: modelName, enc: enc}
}

// Model returns the model name this counter was built for.
func (c *Counter) Model() string {
	return c.modelName
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	// ceil(bytes/3): a rough but safe estimate for mixed-script text.
	return (len(text) + 2) / 3
}

// MessageCost returns the accounted cost of one message: role plus
// content plus the per-message structural overhead.
func (c *Counter) MessageCost(m model.Message) int {
	return c.Count(string(m.Role)) + c.Count(m.Content) + messageOverhead
}

// MessagesCost returns the accounted cost of a message sequence.
func (c *Counter) MessagesCost(msgs []model.Message) int {
	total := 0
	for _, m := range msgs {
		total += c.MessageCost(m)
	}
	return total
}

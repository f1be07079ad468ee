// Package messages holds the read-only chat transcript the annotator walks
// through.
package messages

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

var ErrOutOfRange = errors.New("message index out of range")

type Message struct {
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

type Corpus struct {
	msgs []Message
}

func NewCorpus(msgs []Message) *Corpus {
	return &Corpus{msgs: msgs}
}

// Load reads the transcript JSON, an array of {timestamp, content} records.
func Load(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, err
	}
	return &Corpus{msgs: msgs}, nil
}

func (c *Corpus) Len() int {
	return len(c.msgs)
}

func (c *Corpus) Get(index int) (Message, error) {
	if index < 0 || index >= len(c.msgs) {
		return Message{}, ErrOutOfRange
	}
	return c.msgs[index], nil
}

// Clamp bounds an index to the transcript, for prev/next navigation.
func (c *Corpus) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(c.msgs) {
		return len(c.msgs) - 1
	}
	return index
}

// Trim strips broadcast mentions from a raw message before display.
func Trim(msg string) string {
	replacements := []struct {
		old, new string
	}{
		{"@everyone", ""},
		{"everyone", ""},
	}
	for _, r := range replacements {
		msg = strings.ReplaceAll(msg, r.old, r.new)
	}
	return strings.TrimSpace(msg)
}

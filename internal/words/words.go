package words

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultWords is the prompt list used when no word file is configured
var DefaultWords = []string{
	"honey", "apple", "river", "cloud", "star", "mouse", "car", "tree", "book", "light",
}

// ErrNoWords is returned when a picker is built from an empty list
var ErrNoWords = errors.New("word list cannot be empty")

//go:generate mockgen -package=mocks -destination=mocks/mock_picker.go github.com/KirkDiggler/mindmeld/internal/words Picker
type Picker interface {
	// Pick returns a prompt word different from previous when possible
	Pick(previous string) string
}

// Config for the word picker
type Config struct {
	// Words to draw prompts from, DefaultWords when empty
	Words []string

	// Optional seed for testing
	Seed int64
}

// RandomPicker draws prompt words at random
type RandomPicker struct {
	mu     sync.Mutex
	random *rand.Rand
	words  []string
}

// New creates a new word picker
func New(cfg *Config) (*RandomPicker, error) {
	list := DefaultWords
	var seed int64
	if cfg != nil {
		if len(cfg.Words) > 0 {
			list = cfg.Words
		}
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cleaned := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		cleaned = append(cleaned, w)
	}
	if len(cleaned) == 0 {
		return nil, ErrNoWords
	}

	return &RandomPicker{
		random: rand.New(rand.NewSource(seed)),
		words:  cleaned,
	}, nil
}

// Pick returns a random word, never previous unless it is the only word
func (p *RandomPicker) Pick(previous string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.words) == 1 {
		return p.words[0]
	}

	for {
		w := p.words[p.random.Intn(len(p.words))]
		if w != previous {
			return w
		}
	}
}

type wordFile struct {
	Words []string `yaml:"words"`
}

// LoadFile reads a YAML word list of the form `words: [a, b, c]`
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}

	var wf wordFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse word file: %w", err)
	}

	if len(wf.Words) == 0 {
		return nil, ErrNoWords
	}

	return wf.Words, nil
}

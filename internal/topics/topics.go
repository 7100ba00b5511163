// Package topics holds the curated catalog the surprise endpoint draws
// from. The built-in list can be replaced by a YAML file.
package topics

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"
)

// defaultTopics is the built-in catalog: subjects with deep pre-2016
// communities worth stumbling into.
var defaultTopics = []string{
	"bread fermentation",
	"quantum mechanics interpretation",
	"ancient roman engineering",
	"tcp ip implementation",
	"jazz improvisation theory",
	"mycology fungi",
	"typography history",
	"game theory economics",
	"neuroplasticity brain",
	"woodworking joinery",
	"cryptography mathematics",
	"astronomy deep space",
	"philosophy consciousness",
	"genetics evolution",
	"architecture brutalism",
}

// Catalog is a fixed topic list with uniform random picking. Picks are
// independent; repeats are allowed.
type Catalog struct {
	topics []string

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a catalog from the given list. An empty list falls back to
// the built-in topics.
func New(list []string) *Catalog {
	if len(list) == 0 {
		list = defaultTopics
	}
	topics := make([]string, len(list))
	copy(topics, list)
	return &Catalog{
		topics: topics,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Default returns a catalog over the built-in topic list.
func Default() *Catalog {
	return New(nil)
}

// Load reads a catalog from a YAML file of the form:
//
//	topics:
//	  - bread fermentation
//	  - typography history
//
// An empty path returns the default catalog. A file that parses but
// yields no usable topics is an error rather than a silent fallback.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file %s: %w", path, err)
	}

	var file struct {
		Topics []string `yaml:"topics"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing topics file %s: %w", path, err)
	}

	var topics []string
	for _, t := range file.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("topics file %s contains no topics", path)
	}
	return New(topics), nil
}

// Pick returns one topic chosen uniformly at random.
func (c *Catalog) Pick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topics[c.rng.Intn(len(c.topics))]
}

// Topics returns a copy of the catalog's list.
func (c *Catalog) Topics() []string {
	out := make([]string, len(c.topics))
	copy(out, c.topics)
	return out
}

package reddit

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed posts.yaml
var mockPosts []byte

// MockSource serves a fixed list of posts decoded from YAML.
type MockSource struct {
	data  []byte
	once  sync.Once
	posts []Post
	err   error
}

// NewMockSource returns a source backed by the embedded post list
func NewMockSource() *MockSource {
	return &MockSource{data: mockPosts}
}

// NewMockSourceFromYAML returns a source backed by the given YAML document
func NewMockSourceFromYAML(data []byte) *MockSource {
	return &MockSource{data: data}
}

type postFile struct {
	Posts []Post `yaml:"posts"`
}

// Posts returns a copy of the post list in file order.
func (m *MockSource) Posts(ctx context.Context) ([]Post, error) {
	m.once.Do(func() {
		var f postFile
		if err := yaml.Unmarshal(m.data, &f); err != nil {
			m.err = fmt.Errorf("failed to decode mock posts: %w", err)
			return
		}
		m.posts = f.Posts
	})
	if m.err != nil {
		return nil, m.err
	}

	posts := make([]Post, len(m.posts))
	copy(posts, m.posts)
	return posts, nil
}

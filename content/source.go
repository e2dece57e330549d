package content

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const AboutID = "about"

// Source loads the raw markdown of a post.
type Source interface {
	Read(ctx context.Context, id string) (string, error)
}

// Lister is implemented by sources that can enumerate their posts.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// relPath maps a post id to its location, "about" lives at the root, every other post under content/.
func relPath(id string) string {
	if id == AboutID {
		return "about.md"
	}
	return path.Join("content", id+".md")
}

// DirSource reads posts from a directory tree.
type DirSource struct {
	fs  afero.Fs
	dir string
}

func NewDirSource(fs afero.Fs, dir string) *DirSource {
	return &DirSource{fs: fs, dir: dir}
}

func (s *DirSource) Read(_ context.Context, id string) (string, error) {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", errors.Errorf("invalid post id %q", id)
	}
	fpath := filepath.Join(s.dir, filepath.FromSlash(relPath(id)))
	raw, err := afero.ReadFile(s.fs, fpath)
	if err != nil {
		return "", errors.Wrapf(err, "read post %s", id)
	}
	return string(raw), nil
}

// List returns the ids of every markdown file under content/, sorted.
func (s *DirSource) List(_ context.Context) ([]string, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(s.dir, "content", "*.md"))
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), ".md"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Getter is the part of *http.Client the HTTP source needs.
type Getter interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

// HTTPSource reads posts relative to a base URL, eg. the published site.
type HTTPSource struct {
	client  Getter
	baseURL string
}

func NewHTTPSource(client Getter, baseURL string) *HTTPSource {
	return &HTTPSource{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *HTTPSource) Read(ctx context.Context, id string) (string, error) {
	raw, err := s.client.Get(ctx, s.baseURL+"/"+relPath(id), map[string]string{"Accept": "text/markdown, text/plain, */*"})
	if err != nil {
		return "", errors.Wrapf(err, "fetch post %s", id)
	}
	return string(raw), nil
}

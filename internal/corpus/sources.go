package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/factfinder/internal/fetcher"
)

// FileSource streams a one-fact-per-line text file
type FileSource struct {
	path   string
	logger *logrus.Entry
}

// NewFileSource creates a file-backed source
func NewFileSource(path string, logger *logrus.Entry) *FileSource {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

func (fs *FileSource) Name() string {
	return "file:" + fs.path
}

// Lines opens the file and reads it one line at a time. Lines have no length
// limit. The file is closed once the sequence ends or the caller stops ranging.
func (fs *FileSource) Lines(ctx context.Context) (iter.Seq[string], error) {
	file, err := os.Open(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}

	return func(yield func(string) bool) {
		defer file.Close()

		reader := bufio.NewReader(file)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
				if !yield(line) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					fs.logger.WithError(err).WithField("path", fs.path).Warn("Corpus read stopped early")
				}
				return
			}
		}
	}, nil
}

// StaticSource serves an embedded list of lines
type StaticSource struct {
	lines []string
}

func NewStaticSource(lines ...string) *StaticSource {
	return &StaticSource{lines: slices.Clone(lines)}
}

func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) Lines(ctx context.Context) (iter.Seq[string], error) {
	return slices.Values(s.lines), nil
}

// HTTPSource fetches the corpus document on every query
type HTTPSource struct {
	url     string
	fetcher *fetcher.Fetcher
}

func NewHTTPSource(url string, f *fetcher.Fetcher) *HTTPSource {
	return &HTTPSource{url: url, fetcher: f}
}

func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

func (s *HTTPSource) Lines(ctx context.Context) (iter.Seq[string], error) {
	result, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus: %w", err)
	}
	return slices.Values(result.Lines), nil
}

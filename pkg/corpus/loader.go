// Package corpus fetches the system instructions and the knowledge base text.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"ai-consultant-bot/pkg/utils"
)

const defaultExportBase = "https://docs.google.com"

var (
	ErrInvalidDocumentURL = errors.New("invalid google document url")
	ErrEmptyDocument      = errors.New("document is empty")

	docIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9-_]+)`)
)

// Loader reads documents either from a Google Docs share link or from a local path.
type Loader struct {
	Client     *http.Client
	ExportBase string
}

func NewLoader() *Loader {
	return &Loader{
		Client:     &http.Client{Timeout: 30 * time.Second},
		ExportBase: defaultExportBase,
	}
}

// DocumentID extracts the id from a Google Docs link.
func DocumentID(url string) (string, error) {
	m := docIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidDocumentURL, url)
	}
	return m[1], nil
}

// Load returns the plain text of the document.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	var (
		text string
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		text, err = l.fetch(ctx, source)
	} else {
		var raw []byte
		raw, err = os.ReadFile(source)
		text = string(raw)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}
	return text, nil
}

// LoadChunks loads the document and splits it on paragraph boundaries.
func (l *Loader) LoadChunks(ctx context.Context, source string, chunkSize int) ([]string, error) {
	text, err := l.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return utils.SplitParagraphs(text, chunkSize), nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	id, err := DocumentID(url)
	if err != nil {
		return "", err
	}

	exportURL := fmt.Sprintf("%s/document/d/%s/export?format=txt", strings.TrimRight(l.ExportBase, "/"), id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch document %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", id, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch document %s: status %d", id, resp.StatusCode)
	}
	return string(body), nil
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"newsdesk/pkg/content"
	"newsdesk/pkg/models"

	"github.com/go-shiori/go-readability"
)

const importMaxBytes = 5 << 20

// Importer turns an external page, or an exported content file, into a
// draft for the article create form.
type Importer struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewImporter(httpClient *http.Client, timeout time.Duration) *Importer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = publicClient(timeout)
	}
	return &Importer{httpClient: httpClient, timeout: timeout}
}

// publicClient only connects to public addresses. The check runs on the
// resolved address of every dial, redirects included.
func publicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout, Control: refusePrivate}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

func refusePrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || !isPublic(addr.Unmap()) {
		return fmt.Errorf("dial %s: %w", address, models.ErrBlockedAddress)
	}
	return nil
}

var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func isPublic(addr netip.Addr) bool {
	return addr.IsGlobalUnicast() &&
		!addr.IsPrivate() &&
		!sharedAddressSpace.Contains(addr)
}

func (i *Importer) FromURL(ctx context.Context, rawURL string) (models.ArticleInput, error) {
	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return models.ArticleInput{}, fmt.Errorf("import url %q: %w", rawURL, models.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return models.ArticleInput{}, fmt.Errorf("new request: %w", err)
	}
	resp, err := i.httpClient.Do(req)
	if err != nil {
		return models.ArticleInput{}, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.ArticleInput{}, fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, importMaxBytes))
	if err != nil {
		return models.ArticleInput{}, fmt.Errorf("read body: %w", err)
	}

	if isContentFile(resp.Header.Get("Content-Type"), data) {
		return ArticleFromFrontMatter(data)
	}
	return fromReadable(data, pageURL)
}

// FromSource imports a pasted content file.
func (i *Importer) FromSource(source string) (models.ArticleInput, error) {
	return ArticleFromFrontMatter([]byte(source))
}

func fromReadable(data []byte, pageURL *url.URL) (models.ArticleInput, error) {
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return models.ArticleInput{}, fmt.Errorf("readability: %w", err)
	}

	in := models.ArticleInput{
		Title:    strings.TrimSpace(article.Title),
		ImageURL: strings.TrimSpace(article.Image),
	}

	doc, err := content.FromHTML(article.Content)
	if err != nil || strings.TrimSpace(doc.PlainText()) == "" {
		doc = content.FromPlainText(strings.TrimSpace(article.TextContent))
	}
	in.Content = doc.String()
	return in, nil
}

func isContentFile(contentType string, data []byte) bool {
	if strings.HasPrefix(contentType, "text/markdown") {
		return true
	}
	head := bytes.TrimLeft(data, " \r\n\t")
	return bytes.HasPrefix(head, []byte("---")) || bytes.HasPrefix(head, []byte("+++"))
}

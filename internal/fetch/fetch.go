// Package fetch resolves a source reference to a local file.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// tempPrefix names downloaded files so Cleanup can find them.
const tempPrefix = "booklet-src-"

// Source is a resolved local document.
type Source struct {
	Path string
	// Temporary is set when Path was downloaded and should be removed by Close.
	Temporary bool
}

// Close removes a downloaded file.
func (s Source) Close() error {
	if !s.Temporary {
		return nil
	}
	return os.Remove(s.Path)
}

// Fetcher downloads remote references. The zero value uses http.DefaultClient
// and loads AWS configuration on first s3:// use.
type Fetcher struct {
	HTTP *http.Client
	S3   *s3.Client
}

// Resolve returns a local path for ref. Supported forms:
//   - file://path or a plain filesystem path
//   - http(s)://... (downloaded to a temp file)
//   - s3://bucket/key (downloaded to a temp file)
func (f *Fetcher) Resolve(ctx context.Context, ref string) (Source, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		p, err := f.downloadS3(ctx, ref)
		return Source{Path: p, Temporary: p != ""}, err
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		p, err := f.downloadHTTP(ctx, ref)
		return Source{Path: p, Temporary: p != ""}, err
	case strings.HasPrefix(ref, "file://"):
		return local(strings.TrimPrefix(ref, "file://"))
	default:
		return local(ref)
	}
}

func local(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("open source: %w", err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("source %s is a directory", path)
	}
	return Source{Path: path}, nil
}

func (f *Fetcher) downloadHTTP(ctx context.Context, url string) (string, error) {
	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: http %d", url, resp.StatusCode)
	}
	return saveTemp(resp.Body, extOf(url))
}

func (f *Fetcher) downloadS3(ctx context.Context, s3url string) (string, error) {
	path := strings.TrimPrefix(s3url, "s3://")
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return "", fmt.Errorf("invalid s3 url: %s", s3url)
	}
	bucket := path[:slash]
	key := path[slash+1:]

	if f.S3 == nil {
		cfg, err := awscfg.LoadDefaultConfig(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		f.S3 = s3.NewFromConfig(cfg)
	}

	out, err := f.S3.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return "", fmt.Errorf("failed to download from S3: %w", err)
	}
	defer out.Body.Close()

	p, err := saveTemp(out.Body, extOf(key))
	if err != nil {
		return "", err
	}
	log.Info().Str("bucket", bucket).Str("key", key).Str("file", filepath.Base(p)).Msg("downloaded s3 source to temp")
	return p, nil
}

func saveTemp(r io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp("", tempPrefix+"*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("save download: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// extOf keeps the extension of the remote name so type detection and
// converters see a familiar file name.
func extOf(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	ext := filepath.Ext(name)
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}

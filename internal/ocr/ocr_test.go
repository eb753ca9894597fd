package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	pages int
	fail  map[string]error
	tsv   string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if err := f.fail[name]; err != nil {
		return nil, []byte(name + " exploded"), err
	}
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			p := prefix + "-" + string(rune('0'+i)) + ".png"
			if err := os.WriteFile(p, []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if args[len(args)-1] == "tsv" {
			return []byte(f.tsv), nil, nil
		}
		return []byte("PURCHASE ORDER\r\ntext of " + filepath.Base(args[0]) + "\n"), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func found(string) (string, error)   { return "/usr/bin/x", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

func writeFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("not really a document"), 0o600))
	return p
}

func TestExtractPDFRasterizesEachPage(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{pages: 2}
	e := NewExtractor(Config{}, nil, WithRunner(r), WithLookPath(found))

	res, err := e.Extract(context.Background(), writeFile(t, "po.PDF"))
	require.NoError(t, err)

	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "eng+jpn", res.Language)
	assert.Equal(t, "--- Page 1 ---\nPURCHASE ORDER\ntext of page-1.png\n\n--- Page 2 ---\nPURCHASE ORDER\ntext of page-2.png", res.Text)
	assert.Positive(t, res.Confidence)

	require.Len(t, r.calls, 3)
	assert.Equal(t, []string{"pdftoppm", "-r", "300", "-png"}, r.calls[0][:4])
	assert.Equal(t, []string{"-l", "eng+jpn"}, r.calls[1][3:5])
}

func TestExtractPDFRespectsMaxPages(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{pages: 3}
	e := NewExtractor(Config{MaxPages: 1}, nil, WithRunner(r), WithLookPath(found))

	res, err := e.Extract(context.Background(), writeFile(t, "po.pdf"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.NotContains(t, res.Text, "Page 2")
}

func TestExtractPDFFallsBackToTextLayer(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{fail: map[string]error{"pdftoppm": errors.New("exit status 1")}}
	e := NewExtractor(Config{}, nil, WithRunner(r), WithLookPath(found))

	// garbage bytes: the rasterizer fails, then the text layer cannot parse either
	res, err := e.Extract(context.Background(), writeFile(t, "broken.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "pdftoppm")
}

func TestExtractPDFWithoutTools(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{}
	e := NewExtractor(Config{}, nil, WithRunner(r), WithLookPath(missing))

	_, err := e.Extract(context.Background(), writeFile(t, "scan.pdf"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, r.calls)
}

func TestExtractImage(t *testing.T) {
	t.Parallel()
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t10\t10\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tPURCHASE\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\tORDER\n"
	r := &fakeRunner{tsv: tsv}
	e := NewExtractor(Config{EnableTSVConfidence: true, TessdataDir: "/tess"}, nil, WithRunner(r), WithLookPath(found))

	path := writeFile(t, "scan.jpeg")
	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "PURCHASE ORDER\ntext of scan.jpeg", res.Text)
	assert.InDelta(t, 0.7*0.8+0.3*heuristicConfidence(res.Text), res.Confidence, 1e-5)
	require.Len(t, r.calls, 2)
	assert.Equal(t, []string{"tesseract", path, "stdout", "-l", "eng+jpn", "--tessdata-dir", "/tess"}, r.calls[0])
	assert.Equal(t, "tsv", r.calls[1][len(r.calls[1])-1])
}

func TestExtractImageTesseractError(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{fail: map[string]error{"tesseract": errors.New("exit status 1")}}
	e := NewExtractor(Config{}, nil, WithRunner(r), WithLookPath(found))

	res, err := e.Extract(context.Background(), writeFile(t, "scan.png"))
	require.Error(t, err)
	assert.Contains(t, res.Warnings, "tesseract exploded")
}

func TestExtractUnsupported(t *testing.T) {
	t.Parallel()
	e := NewExtractor(Config{}, nil, WithRunner(&fakeRunner{}), WithLookPath(found))
	_, err := e.Extract(context.Background(), "/tmp/photo.heic")
	assert.ErrorIs(t, err, common.ErrUnsupportedMedia)
}

func TestNormalizeKeepsColumns(t *testing.T) {
	t.Parallel()
	in := "Item   Qty    Price\r\nWidget\t10   5.00   \n-----\n\n\n\nTotal  50.00\f"
	assert.Equal(t, "Item   Qty    Price\nWidget  10   5.00\n\nTotal  50.00", Normalize(in))
	assert.Equal(t, "", Normalize(""))
}

func TestHeuristicConfidence(t *testing.T) {
	t.Parallel()
	assert.Zero(t, heuristicConfidence("   "))
	low := heuristicConfidence("hello")
	high := heuristicConfidence("PURCHASE ORDER 2024-01-15 USD 1,250.00")
	assert.InDelta(t, 0.2, low, 1e-6)
	assert.InDelta(t, 0.85, high, 1e-6)
	assert.LessOrEqual(t, blendConfidence(1, 1), float32(1))
	assert.Equal(t, float32(0.5), blendConfidence(0, 0.5))
}

func TestMeanTSVConfidence(t *testing.T) {
	t.Parallel()
	assert.Zero(t, meanTSVConfidence(""))
	assert.Zero(t, meanTSVConfidence("header\n"))
}

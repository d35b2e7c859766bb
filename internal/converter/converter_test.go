package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelloftdk/rejsekort-parser/internal/receipt"
	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.DebugLevel)
	os.Exit(m.Run())
}

const receiptText = "Invoice – 3 January 2026\nJourneys\n12:15 Mirkwood Forest → The Lab 12:19\nStandard DKK 23.00\nTravellers\nEleven Young person\nSubtotal"

var errUnreadable = errors.New("unreadable")

// fakeExtractor serves texts by file name.
func fakeExtractor(texts map[string]string) TextExtractor {
	return func(path string) (string, error) {
		text, ok := texts[filepath.Base(path)]
		if !ok {
			return "", errUnreadable
		}
		return text, nil
	}
}

func testParser() *receipt.Parser {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	return receipt.NewParser(nil).WithClock(func() time.Time { return now })
}

func TestConverter_Run(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := New("in/REJSEKORT_2026-01-03_a.pdf", testParser(),
			WithExtractor(fakeExtractor(map[string]string{"REJSEKORT_2026-01-03_a.pdf": receiptText})))
		res := c.Run()

		require.True(t, res.Success)
		require.NoError(t, res.Error)
		require.Len(t, res.Records, 1)
		assert.Equal(t, "2026-01-03", res.Date.String())
		assert.Equal(t, 1, res.Stats.JourneysFound)
		assert.Equal(t, 0, res.Stats.Warnings)
		assert.Equal(t, len([]rune(receiptText)), res.Stats.TextLength)
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("verbose keeps debug", func(t *testing.T) {
		c := New("a.pdf", testParser(),
			WithVerbose(true),
			WithExtractor(fakeExtractor(map[string]string{"a.pdf": receiptText})))
		res := c.Run()
		assert.NotEmpty(t, res.Diagnostics)
		assert.Equal(t, types.LevelDebug, res.Diagnostics[0].Level)
	})

	t.Run("unreadable file", func(t *testing.T) {
		res := New("broken.pdf", testParser(), WithExtractor(fakeExtractor(nil))).Run()
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Error, errUnreadable)
		assert.Empty(t, res.Records)
	})

	t.Run("no journeys is not a failure", func(t *testing.T) {
		res := New("empty.pdf", testParser(),
			WithExtractor(fakeExtractor(map[string]string{"empty.pdf": strings.Repeat("nothing ", 100)}))).Run()
		assert.True(t, res.Success)
		assert.Empty(t, res.Records)
		assert.Equal(t, 1, res.Stats.Errors)
		assert.GreaterOrEqual(t, res.Stats.Warnings, 1)
	})
}

func TestConverter_Run_LogsPreviewOnParseErrors(t *testing.T) {
	hook := test.NewGlobal()
	undated := strings.Replace(receiptText, "Invoice – 3 January 2026\n", "", 1)

	texts := map[string]string{"dated.pdf": receiptText, "undated.pdf": undated}
	for _, name := range []string{"dated.pdf", "undated.pdf"} {
		hook.Reset()
		res := New(name, testParser(), WithExtractor(fakeExtractor(texts))).Run()
		require.True(t, res.Success)
		require.Len(t, res.Records, 1)

		var previewed bool
		for _, e := range hook.AllEntries() {
			if strings.HasPrefix(e.Message, "incomplete parse") {
				previewed = true
			}
		}
		assert.Equal(t, name == "undated.pdf", previewed, name)
	}
}

func TestRunBatch(t *testing.T) {
	texts := map[string]string{}
	var paths []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("REJSEKORT_2026-01-0%d_x.pdf", i+1)
		paths = append(paths, filepath.Join("in", name))
		texts[name] = strings.Replace(receiptText, "Invoice – 3 January 2026\n", "", 1)
	}
	paths = append(paths, "in/missing.pdf")

	var calls atomic.Int32
	extract := fakeExtractor(texts)
	counting := func(path string) (string, error) {
		calls.Add(1)
		return extract(path)
	}

	results := RunBatch(context.Background(), paths, testParser(), 3, WithExtractor(counting))

	require.Len(t, results, len(paths))
	assert.Equal(t, int32(len(paths)), calls.Load())
	for i, res := range results[:8] {
		assert.Equal(t, paths[i], res.FilePath)
		require.True(t, res.Success, res.FilePath)
		assert.Equal(t, fmt.Sprintf("2026-01-0%d", i+1), res.Date.String())
	}
	assert.False(t, results[8].Success)
	assert.ErrorIs(t, results[8].Error, errUnreadable)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunBatch(ctx, []string{"a.pdf", "b.pdf"}, nil, 1,
		WithExtractor(fakeExtractor(map[string]string{"a.pdf": receiptText, "b.pdf": receiptText})))

	require.Len(t, results, 2)
	for _, res := range results {
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Error, context.Canceled)
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	long := strings.Repeat("ø", 600)
	assert.Equal(t, strings.Repeat("ø", previewLength), preview(long))
}

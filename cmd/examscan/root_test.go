package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/examscan/model"
)

func questionFile(t *testing.T) string {
	t.Helper()
	lines := []model.TextLine{{Text: "1. 下列说法正确的是", Box: model.NewRect(40, 100, 900, 140)}}
	for i, letter := range []string{"A", "B", "C", "D"} {
		y := 160 + float64(i)*40
		lines = append(lines, model.TextLine{Text: letter + ".选项内容", Box: model.NewRect(60, y, 400, y+30)})
	}
	var blocks []model.TextBlock
	for _, l := range lines {
		blocks = append(blocks, model.TextBlock{Box: l.Box, Lines: []model.TextLine{l}})
	}
	page := model.NewPage(blocks)
	page.Width, page.Height = 1000, 1400

	data, err := json.Marshal(page)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "question.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDetectText(t *testing.T) {
	path := questionFile(t)
	out, _, err := run(t, "detect", path, filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Contains(t, out, path+": question")
	assert.Contains(t, out, "下列说法正确的是")
	assert.Contains(t, out, "A.选项内容")
	assert.Contains(t, out, "missing.json")
	assert.Contains(t, out, "2 pages, 1 questions")
	assert.Contains(t, out, "1 failed")
}

func TestDetectJSON(t *testing.T) {
	out, _, err := run(t, "detect", "--format", "json", questionFile(t))
	require.NoError(t, err)

	var rep struct {
		RunID   string `json:"run_id"`
		Entries []struct {
			Result struct {
				IsQuestion bool `json:"is_question"`
			} `json:"result"`
			Regions []json.RawMessage `json:"regions"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Entries, 1)
	assert.True(t, rep.Entries[0].Result.IsQuestion)
	assert.Len(t, rep.Entries[0].Regions, 1)
}

func TestRegionsText(t *testing.T) {
	out, _, err := run(t, "regions", "--workers", "2", questionFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, ": 1 regions")
	assert.Contains(t, out, "left=25 top=90 right=915 bottom=315")
}

func TestMarkdownAndHTML(t *testing.T) {
	path := questionFile(t)

	md, _, err := run(t, "regions", "-f", "markdown", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Exam page scan"))

	html, _, err := run(t, "detect", "-f", "html", path)
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := run(t, "detect", "-f", "xml", questionFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestDetectNeedsFiles(t *testing.T) {
	_, _, err := run(t, "detect")
	require.Error(t, err)
}

func TestDebugLogging(t *testing.T) {
	_, logs, err := run(t, "detect", "--log-level", "debug", questionFile(t))
	require.NoError(t, err)
	assert.Contains(t, logs, "page classified")
	assert.Contains(t, logs, "scan finished")
}

func TestWeights(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "examscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scoring:\n  auto_threshold: 45\n"), 0o600))

	out, _, err := run(t, "weights", "--config", cfgPath)
	require.NoError(t, err)

	var got struct {
		Weights struct {
			AutoThreshold float64 `json:"auto_threshold"`
		} `json:"weights"`
		Gates struct {
			CoreMarkers int `json:"core_markers"`
		} `json:"gates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 45.0, got.Weights.AutoThreshold)
	assert.Equal(t, 2, got.Gates.CoreMarkers)
}

func TestBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "examscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 0\n"), 0o600))
	_, _, err := run(t, "weights", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

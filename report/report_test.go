package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/harlequix/paritysim/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fixture() []*simulation.Result {
	mk := func(d int, p float64, method encoding.Method, attempts int, converged bool) *simulation.Result {
		cfg := simulation.DefaultConfig()
		cfg.D, cfg.P, cfg.Method, cfg.Seed = d, p, method, 42
		res := &simulation.Result{
			Config:    cfg,
			Attempts:  attempts,
			Converged: converged,
			Duration:  1500 * time.Microsecond,
		}
		if converged {
			res.Efficiency = 1 / float64(attempts)
		}
		return res
	}
	return []*simulation.Result{
		mk(9, 0.0001, encoding.ParityBit, 1, true),
		mk(9, 0.0001, encoding.ParityMatrix, 1, true),
		mk(9, 0.05, encoding.ParityBit, 4, true),
		nil,
		mk(9, 0.05, encoding.ParityMatrix, 10, false),
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"table": Table, "MD": Markdown, "json": JSON, "yml": YAML, "yaml": YAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Write(&bytes.Buffer{}, Format("csv"), nil), ErrUnknownFormat)
}

func TestRecords(t *testing.T) {
	records := Records(fixture())
	require.Len(t, records, 4)
	assert.Equal(t, Record{
		D: 9, Method: "parity_bit", P: 0.05, Efficiency: 0.25, Attempts: 4,
		Converged: true, Seed: 42, DurationMS: 1.5,
	}, records[2])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Table, fixture()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Results:", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Coding Method")
	assert.Equal(t, []string{"9", "parity_bit", "0.05", "0.25", "4"}, strings.Fields(lines[4]))
	assert.Contains(t, lines[5], "did not converge")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Markdown, fixture()))
	out := buf.String()
	assert.Contains(t, out, "## d=9")
	assert.Contains(t, out, "| Method | p=0.0001 | p=0.05 |")
	assert.Contains(t, out, "| parity_bit | 1.000000 | 0.250000 |")
	assert.Contains(t, out, "| parity_matrix | 1.000000 | n/c |")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, fixture()))
	var doc struct {
		Records []Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Records(fixture()), doc.Records)
	assert.Contains(t, buf.String(), `"final_p"`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, YAML, fixture()))
	var doc struct {
		Records []Record `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Records(fixture()), doc.Records)
	assert.True(t, strings.HasPrefix(buf.String(), "records:\n"))
}

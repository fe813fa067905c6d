// Package report renders sweep results as a plain table, markdown, JSON or
// YAML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/harlequix/paritysim/internal/encoding"
	"github.com/harlequix/paritysim/simulation"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown report format")

type Format string

const (
	Table    Format = "table"
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Table, Markdown, JSON, YAML:
		return f, nil
	case "md":
		return Markdown, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// Record is the flat, serializable view of one result.
type Record struct {
	D              int     `json:"d" yaml:"d"`
	Method         string  `json:"method" yaml:"method"`
	P              float64 `json:"p" yaml:"p"`
	Efficiency     float64 `json:"efficiency" yaml:"efficiency"`
	Attempts       int     `json:"attempts" yaml:"attempts"`
	Converged      bool    `json:"converged" yaml:"converged"`
	FinalP         float64 `json:"final_p" yaml:"final_p"`
	Corrected      int     `json:"corrected_frames" yaml:"corrected_frames"`
	Rejected       int     `json:"rejected_frames" yaml:"rejected_frames"`
	FlippedBits    int     `json:"flipped_bits" yaml:"flipped_bits"`
	ResidualErrors int     `json:"residual_errors" yaml:"residual_errors"`
	Seed           int64   `json:"seed" yaml:"seed"`
	DurationMS     float64 `json:"duration_ms" yaml:"duration_ms"`
}

type document struct {
	Records []Record `json:"records" yaml:"records"`
}

// Records flattens results, skipping nil entries.
func Records(results []*simulation.Result) []Record {
	out := make([]Record, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		out = append(out, Record{
			D:              r.Config.D,
			Method:         r.Config.Method.String(),
			P:              r.Config.P,
			Efficiency:     r.Efficiency,
			Attempts:       r.Attempts,
			Converged:      r.Converged,
			FinalP:         r.FinalP,
			Corrected:      r.Corrected,
			Rejected:       r.Rejected,
			FlippedBits:    r.FlippedBits,
			ResidualErrors: r.ResidualErrors,
			Seed:           r.Config.Seed,
			DurationMS:     float64(r.Duration.Microseconds()) / 1000,
		})
	}
	return out
}

func Write(w io.Writer, format Format, results []*simulation.Result) error {
	records := Records(results)
	switch format {
	case Table:
		return writeTable(w, records)
	case Markdown:
		return writeMarkdown(w, records)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Records: records})
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Records: records}); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

func efficiency(r Record) string {
	if !r.Converged {
		return "did not converge"
	}
	return strconv.FormatFloat(r.Efficiency, 'g', -1, 64)
}

func writeTable(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Results:")
	fmt.Fprintln(tw, "d\tCoding Method\tP\tEfficiency Factor\tAttempts")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%v\t%s\t%d\n", r.D, r.Method, r.P, efficiency(r), r.Attempts)
	}
	return tw.Flush()
}

// writeMarkdown emits one table per d with a column per p and a row per
// coding method.
func writeMarkdown(w io.Writer, records []Record) error {
	type key struct {
		d      int
		method string
		p      float64
	}
	byKey := make(map[key]Record, len(records))
	dSet := map[int]struct{}{}
	pSet := map[float64]struct{}{}
	methodSet := map[string]struct{}{}
	for _, r := range records {
		byKey[key{r.D, r.Method, r.P}] = r
		dSet[r.D] = struct{}{}
		pSet[r.P] = struct{}{}
		methodSet[r.Method] = struct{}{}
	}
	ds := make([]int, 0, len(dSet))
	for d := range dSet {
		ds = append(ds, d)
	}
	sort.Ints(ds)
	ps := make([]float64, 0, len(pSet))
	for p := range pSet {
		ps = append(ps, p)
	}
	sort.Float64s(ps)
	methods := make([]string, 0, len(methodSet))
	for _, m := range encoding.Methods {
		if _, ok := methodSet[m.String()]; ok {
			methods = append(methods, m.String())
		}
	}

	var sb strings.Builder
	sb.WriteString("# Transmission Efficiency\n\n")
	for _, d := range ds {
		fmt.Fprintf(&sb, "## d=%d\n\n", d)
		sb.WriteString("| Method |")
		for _, p := range ps {
			fmt.Fprintf(&sb, " p=%v |", p)
		}
		sb.WriteString("\n|---|")
		sb.WriteString(strings.Repeat("---:|", len(ps)))
		sb.WriteString("\n")
		for _, m := range methods {
			fmt.Fprintf(&sb, "| %s |", m)
			for _, p := range ps {
				r, ok := byKey[key{d, m, p}]
				switch {
				case !ok:
					sb.WriteString("  |")
				case !r.Converged:
					sb.WriteString(" n/c |")
				default:
					fmt.Fprintf(&sb, " %.6f |", r.Efficiency)
				}
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Efficiency is 1/attempts; n/c marks runs that hit the attempt cap.\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

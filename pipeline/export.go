package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// SchemaVersion tags every exported table. Bump on any column change.
const SchemaVersion = "polycrit.critical-points/v1"

// WriteRawCSV exports the classified (unrefined) point set. The first
// line is a comment carrying the schema version; csv readers configured
// with Comment = '#' skip it.
func WriteRawCSV(w io.Writer, res Result) error {
	if err := writeSchemaLine(w, res); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	dim := res.Summary.Dim
	header := coordHeader("x", dim)
	header = append(header,
		"classification", "objective_value", "surrogate_value",
		"eig_min", "eig_max", "eig_cond", "eig_det", "eig_trace",
		"frobenius_norm", "smallest_positive_eig", "largest_negative_eig")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range res.Classified {
		rec := coordFields(p.Point)
		rec = append(rec,
			p.Label.String(),
			ffmt(p.ObjectiveValue), ffmt(p.SurrogateValue),
			ffmt(p.Stats.Min), ffmt(p.Stats.Max), ffmt(p.Stats.Cond),
			ffmt(p.Stats.Determinant), ffmt(p.Stats.Trace),
			ffmt(p.FrobeniusNorm), ffmt(p.SmallestPositive), ffmt(p.LargestNegative))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRefinedCSV exports the validated refined set.
func WriteRefinedCSV(w io.Writer, res Result) error {
	if err := writeSchemaLine(w, res); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	dim := res.Summary.Dim
	header := coordHeader("x", dim)
	header = append(header, coordHeader("raw_x", dim)...)
	header = append(header,
		"classification", "objective_value", "raw_objective_value",
		"improvement", "iterations", "merged")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range res.Refined {
		rec := coordFields(p.Refined)
		rec = append(rec, coordFields(p.Point)...)
		rec = append(rec,
			p.Label.String(),
			ffmt(p.RefinedValue), ffmt(p.RawValue), ffmt(p.Improvement),
			strconv.Itoa(p.Iterations), strconv.Itoa(p.Merged))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes both artifacts next to each other: the raw set as
// <base>_raw.csv and the refined set as <base>.csv.
func Export(dir, base string, res Result) error {
	if err := exportFile(filepath.Join(dir, base+"_raw.csv"), res, WriteRawCSV); err != nil {
		return err
	}
	return exportFile(filepath.Join(dir, base+".csv"), res, WriteRefinedCSV)
}

func exportFile(path string, res Result, write func(io.Writer, Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSchemaLine(w io.Writer, res Result) error {
	_, err := fmt.Fprintf(w, "# schema %s degree=%d l2_error=%s solver=%q\n",
		SchemaVersion, res.Summary.Degree, ffmt(res.Summary.L2Error),
		res.Summary.Solver)
	return err
}

func coordHeader(prefix string, dim int) (h []string) {
	for i := 0; i < dim; i++ {
		h = append(h, fmt.Sprintf("%s%d", prefix, i+1))
	}
	return
}

func coordFields(pt []float64) (rec []string) {
	for _, v := range pt {
		rec = append(rec, ffmt(v))
	}
	return
}

func ffmt(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

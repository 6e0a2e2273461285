// Package datasets reads reference cermet measurements and writes run
// outputs, both as Parquet.
package datasets

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet"
	"github.com/apache/arrow/go/v13/parquet/file"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/materials"
	"github.com/YHzed/heac-go/pkg/pareto"
)

// ReferenceRecord is one measured cermet: the composition that was
// sintered and the properties observed on it.
type ReferenceRecord struct {
	Composition materials.Composition
	Measured    pareto.Objectives
}

// referenceColumns is the required schema of a reference Parquet file.
var referenceColumns = []string{
	"ceramic", "ceramic_wt_frac", "binder",
	"grain_size_um", "sinter_temp_c", "hold_time_min",
	"hv", "kic",
}

// LoadReference reads a Parquet file of measured cermets. The binder
// column encodes element fractions as "Co:0.875;Ni:0.125".
func LoadReference(path string) ([]ReferenceRecord, error) {
	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	indices := make(map[string]int, len(referenceColumns))
	for _, name := range referenceColumns {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return nil, errors.Newf(errors.InvalidInput, "reference file missing column %q", name)
		}
		indices[name] = idx[0]
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	strCol := func(name string) []string {
		out := make([]string, 0, table.NumRows())
		for _, chunk := range table.Column(indices[name]).Data().Chunks() {
			col := chunk.(*array.String)
			for i := 0; i < col.Len(); i++ {
				out = append(out, col.Value(i))
			}
		}
		return out
	}
	floatCol := func(name string) []float64 {
		out := make([]float64, 0, table.NumRows())
		for _, chunk := range table.Column(indices[name]).Data().Chunks() {
			col := chunk.(*array.Float64)
			for i := 0; i < col.Len(); i++ {
				out = append(out, col.Value(i))
			}
		}
		return out
	}

	ceramics := strCol("ceramic")
	binders := strCol("binder")
	ceramicW := floatCol("ceramic_wt_frac")
	grain := floatCol("grain_size_um")
	temp := floatCol("sinter_temp_c")
	hold := floatCol("hold_time_min")
	hv := floatCol("hv")
	kic := floatCol("kic")

	records := make([]ReferenceRecord, 0, table.NumRows())
	for i := range ceramics {
		ceramic, err := materials.ParseCeramicPhase(ceramics[i])
		if err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput,
				fmt.Sprintf("reference row %d", i))
		}
		binder, err := parseBinder(binders[i])
		if err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput,
				fmt.Sprintf("reference row %d", i))
		}
		comp, err := materials.NewComposition(ceramic, ceramicW[i], binder, materials.ProcessParams{
			GrainSizeUM: grain[i],
			SinterTempC: temp[i],
			HoldTimeMin: hold[i],
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.InvalidComposition,
				fmt.Sprintf("reference row %d", i))
		}
		records = append(records, ReferenceRecord{
			Composition: comp,
			Measured:    pareto.Objectives{HV: hv[i], KIC: kic[i]},
		})
	}
	return records, nil
}

// parseBinder decodes "Co:0.875;Ni:0.125" into a fraction map and
// normalizes it.
func parseBinder(s string) (map[string]float64, error) {
	raw := make(map[string]float64)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		el, val, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errors.Newf(errors.InvalidInput, "malformed binder entry %q", part)
		}
		frac, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.Newf(errors.InvalidInput, "malformed binder fraction %q", val)
		}
		raw[el] = frac
	}
	return materials.Normalize(raw)
}

// FormatBinder is the inverse of the binder column encoding, with
// elements in deterministic order.
func FormatBinder(c materials.Composition) string {
	parts := make([]string, 0, len(c.Elements()))
	for _, el := range c.Elements() {
		parts = append(parts, fmt.Sprintf("%s:%.4f", el, c.BinderFraction(el)))
	}
	return strings.Join(parts, ";")
}

// ExportEntries writes archive entries as a Parquet file with the same
// composition encoding LoadReference expects, plus the predicted
// objectives and scores.
func ExportEntries(path string, entries []pareto.Entry) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "signature", Type: arrow.BinaryTypes.String},
		{Name: "ceramic", Type: arrow.BinaryTypes.String},
		{Name: "ceramic_wt_frac", Type: arrow.PrimitiveTypes.Float64},
		{Name: "binder", Type: arrow.BinaryTypes.String},
		{Name: "grain_size_um", Type: arrow.PrimitiveTypes.Float64},
		{Name: "sinter_temp_c", Type: arrow.PrimitiveTypes.Float64},
		{Name: "hold_time_min", Type: arrow.PrimitiveTypes.Float64},
		{Name: "hv", Type: arrow.PrimitiveTypes.Float64},
		{Name: "kic", Type: arrow.PrimitiveTypes.Float64},
		{Name: "score_hv", Type: arrow.PrimitiveTypes.Float64},
		{Name: "score_kic", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, e := range entries {
		c := e.Composition
		p := c.Process()
		builder.Field(0).(*array.StringBuilder).Append(e.Signature)
		builder.Field(1).(*array.StringBuilder).Append(string(c.Ceramic()))
		builder.Field(2).(*array.Float64Builder).Append(c.CeramicWeightFraction())
		builder.Field(3).(*array.StringBuilder).Append(FormatBinder(c))
		builder.Field(4).(*array.Float64Builder).Append(p.GrainSizeUM)
		builder.Field(5).(*array.Float64Builder).Append(p.SinterTempC)
		builder.Field(6).(*array.Float64Builder).Append(p.HoldTimeMin)
		builder.Field(7).(*array.Float64Builder).Append(e.Objectives.HV)
		builder.Field(8).(*array.Float64Builder).Append(e.Objectives.KIC)
		builder.Field(9).(*array.Float64Builder).Append(e.Scores.HV)
		builder.Field(10).(*array.Float64Builder).Append(e.Scores.KIC)
	}

	record := builder.NewRecord()
	defer record.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	chunkSize := table.NumRows()
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := pqarrow.WriteTable(table, f, chunkSize,
		parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet table: %w", err)
	}
	return nil
}

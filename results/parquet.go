package results

import (
	"io"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquetschema"
	"github.com/pkg/errors"
)

const parquetSchema = `message measurement {
	required binary kind (STRING);
	required int64 procs;
	required int64 threads;
	required int64 units;
	required int64 size;
	required double time;
}`

// WriteParquet writes the measurements as a single parquet file.
func WriteParquet(w io.Writer, ms []Measurement) error {
	sd, err := parquetschema.ParseSchemaDefinition(parquetSchema)
	if err != nil {
		return errors.Wrap(err, "parsing parquet schema")
	}

	fw := goparquet.NewFileWriter(w, goparquet.WithSchemaDefinition(sd), goparquet.WithCreator("speedup"))
	for _, m := range ms {
		row := map[string]interface{}{
			"kind":    []byte(m.Kind),
			"procs":   int64(m.Procs),
			"threads": int64(m.Threads),
			"units":   int64(m.Units),
			"size":    int64(m.Size),
			"time":    m.Time,
		}
		if err = fw.AddData(row); err != nil {
			return errors.Wrap(err, "writing measurement")
		}
	}

	return errors.Wrap(fw.Close(), "closing parquet writer")
}

// ReadParquet reads measurements written by WriteParquet.
func ReadParquet(r io.ReadSeeker) ([]Measurement, error) {
	fr, err := goparquet.NewFileReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening parquet reader")
	}

	out := []Measurement{}
	for {
		row, err := fr.NextRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading parquet row")
		}

		m := Measurement{}
		switch kind := row["kind"].(type) {
		case []byte:
			m.Kind = Kind(kind)
		case string:
			m.Kind = Kind(kind)
		}
		m.Procs = int(asInt64(row["procs"]))
		m.Threads = int(asInt64(row["threads"]))
		m.Units = int(asInt64(row["units"]))
		m.Size = int(asInt64(row["size"]))
		if elapsed, ok := row["time"].(float64); ok {
			m.Time = elapsed
		}
		out = append(out, m)
	}

	return out, nil
}

func asInt64(in interface{}) int64 {
	if val, ok := in.(int64); ok {
		return val
	}
	return 0
}

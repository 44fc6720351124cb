package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

const flushInterval = 100_000

// writeParquet writes rows of T to path with Snappy compression.
func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet: %w", err)
	}
	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&parquet.Snappy),
	)
	for start := 0; start < len(rows); start += flushInterval {
		end := min(start+flushInterval, len(rows))
		if _, err := writer.Write(rows[start:end]); err != nil {
			writer.Close()
			file.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
		if err := writer.Flush(); err != nil {
			writer.Close()
			file.Close()
			return fmt.Errorf("flush parquet: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}

package sheetql

import (
	"testing"
)

func TestOutputFormat_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{name: "CSV format", format: OutputFormatCSV, want: "csv"},
		{name: "TSV format", format: OutputFormatTSV, want: "tsv"},
		{name: "LTSV format", format: OutputFormatLTSV, want: "ltsv"},
		{name: "Parquet format", format: OutputFormatParquet, want: "parquet"},
		{name: "XLSX format", format: OutputFormatXLSX, want: "xlsx"},
		{name: "Unknown format defaults to csv", format: OutputFormat(999), want: "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.format.String(); got != tt.want {
				t.Errorf("OutputFormat.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	if got, ok := ParseOutputFormat("parquet"); !ok || got != OutputFormatParquet {
		t.Errorf("ParseOutputFormat(parquet) = %v, %v", got, ok)
	}
	if _, ok := ParseOutputFormat("json"); ok {
		t.Error("ParseOutputFormat(json) should fail")
	}
}

func TestCompressionType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compression CompressionType
		want        string
		ext         string
		writable    bool
	}{
		{compression: CompressionNone, want: "none", ext: "", writable: true},
		{compression: CompressionGZ, want: "gz", ext: ".gz", writable: true},
		{compression: CompressionBZ2, want: "bz2", ext: ".bz2", writable: false},
		{compression: CompressionXZ, want: "xz", ext: ".xz", writable: true},
		{compression: CompressionZSTD, want: "zstd", ext: ".zst", writable: true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.compression.String(); got != tt.want {
				t.Errorf("CompressionType.String() = %v, want %v", got, tt.want)
			}
			if got := tt.compression.Extension(); got != tt.ext {
				t.Errorf("CompressionType.Extension() = %v, want %v", got, tt.ext)
			}
			if got := tt.compression.Writable(); got != tt.writable {
				t.Errorf("CompressionType.Writable() = %v, want %v", got, tt.writable)
			}
			if got, ok := ParseCompressionType(tt.want); !ok || got != tt.compression {
				t.Errorf("ParseCompressionType(%q) = %v, %v", tt.want, got, ok)
			}
		})
	}
}

func TestDumpOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		options := NewDumpOptions()
		if options.Format != OutputFormatCSV || options.Compression != CompressionNone {
			t.Errorf("NewDumpOptions() = %+v", options)
		}
		if got := options.FileExtension(); got != ".csv" {
			t.Errorf("FileExtension() = %v, want .csv", got)
		}
	})

	t.Run("builder does not mutate the receiver", func(t *testing.T) {
		t.Parallel()
		base := NewDumpOptions()
		options := base.WithFormat(OutputFormatLTSV).WithCompression(CompressionXZ)
		if base.Format != OutputFormatCSV {
			t.Error("WithFormat modified the original options")
		}
		if got := options.FileExtension(); got != ".ltsv.xz" {
			t.Errorf("FileExtension() = %v, want .ltsv.xz", got)
		}
	})
}

// Package types holds values shared across srcpack packages.
package types

// Compression method names accepted on the command line and in configuration.
const (
	CompressionStore   = "store"
	CompressionDeflate = "deflate"
	CompressionLZMA    = "lzma"
	CompressionBzip2   = "bzip2"
)

// DefaultLocalRuleFileName is the per-directory override file consulted
// during traversal unless reconfigured.
const DefaultLocalRuleFileName = ".gitignore"

// PackagingStats accumulates counters for one packaging run. It is owned by
// the pipeline and, when the pipeline runs parallel workers, mutated only by
// the single writer consumer.
type PackagingStats struct {
	TotalFiles     int
	IncludedFiles  int
	ExcludedFiles  int
	TotalSize      int64
	PackedSize     int64
	CompressedSize int64
	StrippedFiles  int
	Tokens         int
	TokenModel     string
}

// ValidatedPath describes a resolved and checked input path.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

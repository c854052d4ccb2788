package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"time"
)

// Compile outcomes stored in a record.
const (
	OutcomeCompiled = "compiled"
	OutcomeFailed   = "failed"
)

// Record is a tamper-evident entry for one compile-and-run attempt.
// The artifact's exit status is deliberately absent: the console never
// inspects it.
type Record struct {
	Index      int    `json:"index"`
	Timestamp  string `json:"timestamp"`
	Source     string `json:"source"`
	SourceHash string `json:"sourceHash"`
	Artifact   string `json:"artifact"`
	Outcome    string `json:"outcome"`
	Launched   bool   `json:"launched"`
	PrevHash   string `json:"prevHash"`
	Hash       string `json:"hash"`
}

// NewRecord builds an unchained record stamped with the current UTC time.
// Index, PrevHash and Hash are filled in by Ledger.Append.
func NewRecord(source, sourceHash, artifact, outcome string, launched bool) *Record {
	return &Record{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Source:     source,
		SourceHash: sourceHash,
		Artifact:   artifact,
		Outcome:    outcome,
		Launched:   launched,
	}
}

// canonicalData is the JSON the hash is computed over. It excludes Hash.
func (r *Record) canonicalData() ([]byte, error) {
	view := struct {
		Index      int    `json:"index"`
		Timestamp  string `json:"timestamp"`
		Source     string `json:"source"`
		SourceHash string `json:"sourceHash"`
		Artifact   string `json:"artifact"`
		Outcome    string `json:"outcome"`
		Launched   bool   `json:"launched"`
		PrevHash   string `json:"prevHash"`
	}{
		Index:      r.Index,
		Timestamp:  r.Timestamp,
		Source:     r.Source,
		SourceHash: r.SourceHash,
		Artifact:   r.Artifact,
		Outcome:    r.Outcome,
		Launched:   r.Launched,
		PrevHash:   r.PrevHash,
	}
	return json.Marshal(view)
}

// ComputeHash calculates SHA256 over canonicalData.
func (r *Record) ComputeHash() (string, error) {
	data, err := r.canonicalData()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// HashSource returns the hex SHA256 of the source file at path.
func HashSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

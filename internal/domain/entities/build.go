package entities

import "time"

// Artifact describes one persisted table.
type Artifact struct {
	Group   Group  `json:"group"`
	Path    string `json:"path"`
	Records int    `json:"records"`
	Digest  string `json:"digest"` // BLAKE3 of the file contents, hex encoded
}

// Build is the history entry for one compilation run.
type Build struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	BaseCount  int       `json:"base_count"`
	FullCount  int       `json:"full_count"`
	BaseDigest string    `json:"base_digest"`
	FullDigest string    `json:"full_digest"`
	OutputDir  string    `json:"output_dir"`
	CreatedAt  time.Time `json:"created_at"`
}

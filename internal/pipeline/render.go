package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zhangqin/crossgraph/internal/model"
)

// ArtifactName builds the run artifact file name. The digest over the
// timestamp and user keeps names unique per run without leaking either in
// guessable form.
func ArtifactName(ts time.Time, user string) string {
	stamp := ts.Format("200601021504")
	sum := sha256.Sum256([]byte(stamp + "_" + user))
	return fmt.Sprintf("%s_%s_%s.json", stamp, user, hex.EncodeToString(sum[:])[:16])
}

// WriteArtifact renders the document as indented JSON into dir and returns
// the written path.
func WriteArtifact(dir, user string, doc *model.GraphDocument) (string, error) {
	if dir == "" {
		dir = "."
	}
	if user == "" {
		user = "user"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render artifact: %w", err)
	}

	path := filepath.Join(dir, ArtifactName(time.Now(), user))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

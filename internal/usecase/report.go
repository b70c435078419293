package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/hooplytics/hooprank/internal/domain/player"
)

// writeMissingReport drops a CSV listing targets that finished the run with
// zero game logs. An empty missing set writes nothing.
func writeMissingReport(dir, season string, missing []player.Player) (string, error) {
	if len(missing) == 0 {
		return "", nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("player_id,full_name\n")
	for _, p := range missing {
		_, _ = fmt.Fprintf(buf, "%d,%s\n", p.ID, csvField(p.FullName))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("missing_ids_%s.csv", season))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

func csvField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

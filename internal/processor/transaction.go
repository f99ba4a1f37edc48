package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/topherjaynes/Screenshot-Holmes/internal/pngmeta"
	"github.com/topherjaynes/Screenshot-Holmes/internal/vision"
)

// maxBaseNameBytes bounds the sanitized name so that name + collision suffix
// + ".png" stays inside the common 255-byte filename limit.
const maxBaseNameBytes = 255 - len(".png") - len("_9999")

// process drives one candidate through the pipeline:
//
//	Pending -> ContentExtracted -> Named -> MetadataEmbedded -> Renamed
//
// Any failure yields a terminal Failed result tagged with the stage and
// kind; until the final rename the file on disk keeps its original bytes
// and its original name.
func (r *Runner) process(ctx context.Context, cand Candidate) Result {
	res := Result{OriginalPath: cand.Path}

	// Idempotency gate: a file that already carries a Description tag was
	// handled by an earlier run. Skip before spending any API tokens.
	existing, ok, err := pngmeta.Read(cand.Path)
	if err != nil {
		return failed(res, StageContentExtraction, KindFilesystem, err)
	}
	if ok && existing != "" {
		res.Status = StatusSkipped
		res.Description = existing
		return res
	}

	imageBytes, err := os.ReadFile(cand.Path)
	if err != nil {
		return failed(res, StageContentExtraction, KindFilesystem, err)
	}

	extraction, err := r.Extractor.ExtractContent(ctx, imageBytes, r.Resize)
	if err != nil {
		return failed(res, StageContentExtraction, visionKind(err), err)
	}
	res.Description = extraction.Description
	res.PromptTokens = extraction.PromptTokens
	res.TotalTokens = extraction.TotalTokens

	rawName, err := r.Namer.GenerateName(ctx, extraction.Description)
	if err != nil {
		return failed(res, StageNaming, visionKind(err), err)
	}
	base := sanitizeName(rawName)
	if base == "" {
		return failed(res, StageNaming, KindMalformedResponse,
			errors.New("name candidate empty after sanitizing"))
	}

	if err := pngmeta.Embed(cand.Path, extraction.Description); err != nil {
		return failed(res, StageMetadata, KindMetadataWrite, err)
	}

	newPath, err := r.renameUnique(cand.Path, base)
	if err != nil {
		if errors.Is(err, errCollisionExhausted) {
			return failed(res, StageRename, KindCollisionExhausted, err)
		}
		return failed(res, StageRename, KindFilesystem, err)
	}

	res.NewPath = newPath
	res.Status = StatusSuccess
	return res
}

func failed(res Result, stage Stage, kind ErrKind, err error) Result {
	res.Status = StatusFailed
	res.Stage = stage
	res.Kind = kind
	res.Err = err
	return res
}

func visionKind(err error) ErrKind {
	switch vision.KindOf(err) {
	case vision.KindQuota:
		return KindQuota
	case vision.KindMalformedResponse:
		return KindMalformedResponse
	default:
		return KindNetwork
	}
}

var errCollisionExhausted = errors.New("no free name within the collision bound")

// renameUnique picks the first free target name (base.png, base_1.png, ...)
// and renames the file to it with a single os.Rename. The probe and the
// rename run under the folder lock, and names are also claimed in memory, so
// two concurrent transactions can never settle on the same target.
func (r *Runner) renameUnique(path, base string) (string, error) {
	dir := filepath.Dir(path)

	r.renameMu.Lock()
	defer r.renameMu.Unlock()
	if r.claimed == nil {
		r.claimed = make(map[string]struct{})
	}

	bound := r.CollisionMax
	if bound <= 0 {
		bound = DefaultCollisionMax
	}

	for i := 0; i <= bound; i++ {
		name := base + ".png"
		if i > 0 {
			name = base + "_" + strconv.Itoa(i) + ".png"
		}
		target := filepath.Join(dir, name)

		if target == path {
			// The namer reproduced the file's current name.
			return path, nil
		}
		if _, taken := r.claimed[target]; taken {
			continue
		}
		if _, err := os.Lstat(target); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", err
		}

		r.claimed[target] = struct{}{}
		if err := os.Rename(path, target); err != nil {
			return "", err
		}
		return target, nil
	}

	return "", errCollisionExhausted
}

// sanitizeName makes a namer candidate safe to use as a filename: path
// separators and control characters are dropped, surrounding whitespace and
// quotes trimmed, a redundant ".png" suffix removed, and the result clamped
// to maxBaseNameBytes without splitting a rune.
func sanitizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r == '/' || r == '\\' || r == filepath.Separator || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	s := strings.TrimSpace(b.String())
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if ext := strings.ToLower(filepath.Ext(s)); ext == ".png" {
		s = s[:len(s)-len(ext)]
		s = strings.TrimSpace(s)
	}

	for len(s) > maxBaseNameBytes {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return strings.TrimSpace(s)
}

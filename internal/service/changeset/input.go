package changeset

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

const (
	// MaxTextBytes caps content_text, measured in encoded bytes.
	MaxTextBytes = 200 << 10
	// MaxBinaryBytes caps content_base64 after decoding.
	MaxBinaryBytes = 2 << 20

	// reservedFileName is generated by the system and may never be written
	// through a change-set, in any directory.
	reservedFileName = "SKILL.md"
)

// allowedTopDirs are the only top-level directories a file path may start
// with.
var allowedTopDirs = map[string]bool{
	"scripts":    true,
	"references": true,
	"assets":     true,
}

// ApplyInput holds an untrusted change-set addressed to one skill. Fields
// and FileOps are pointers so that "absent" and "present but empty" stay
// distinguishable; both are required.
type ApplyInput struct {
	SkillID uuid.UUID
	Fields  *domain.FieldPatch
	FileOps *[]domain.FileOp
}

// Validate is the gate: it checks the whole change-set without touching
// storage and collects every violation, not just the first.
func (i ApplyInput) Validate() error {
	var errs []domain.FieldError

	if i.SkillID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "skill_id", Message: "required"})
	}
	if i.Fields == nil {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "required"})
	}
	if i.FileOps == nil {
		errs = append(errs, domain.FieldError{Field: "file_ops", Message: "required"})
	} else {
		for idx, op := range *i.FileOps {
			errs = append(errs, fileOpViolations(idx, op)...)
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// fileOpViolations checks a single file operation: op kind, path policy,
// and the content rules for upserts. Deletes ignore content fields.
func fileOpViolations(idx int, op domain.FileOp) []domain.FieldError {
	prefix := fmt.Sprintf("file_ops[%d]", idx)
	var errs []domain.FieldError

	if !op.Op.IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + ".op", Message: "must be one of: upsert, delete"})
	}
	for _, msg := range pathViolations(op.Path) {
		errs = append(errs, domain.FieldError{Field: prefix + ".path", Message: msg})
	}

	if op.Op != domain.FileOpUpsert {
		return errs
	}

	switch {
	case op.ContentText == nil && op.ContentBase64 == nil:
		errs = append(errs, domain.FieldError{Field: prefix + ".content", Message: "upsert requires one of content_text, content_base64"})
	case op.ContentText != nil && op.ContentBase64 != nil:
		errs = append(errs, domain.FieldError{Field: prefix + ".content", Message: "content_text and content_base64 are mutually exclusive"})
	case op.ContentText != nil:
		if len(*op.ContentText) > MaxTextBytes {
			errs = append(errs, domain.FieldError{Field: prefix + ".content_text", Message: "exceeds the 200 KiB limit"})
		}
	default:
		decoded, err := base64.StdEncoding.DecodeString(*op.ContentBase64)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: prefix + ".content_base64", Message: "is not valid base64"})
		} else if len(decoded) > MaxBinaryBytes {
			errs = append(errs, domain.FieldError{Field: prefix + ".content_base64", Message: "decoded content exceeds the 2 MiB limit"})
		}
	}

	return errs
}

// pathViolations applies the file path policy and returns every rule the
// path breaks. An empty result means the path is accepted.
func pathViolations(p string) []string {
	if p == "" {
		return []string{"required"}
	}

	var msgs []string
	if strings.HasPrefix(p, "/") {
		msgs = append(msgs, "must not start with a path root")
	}
	if strings.Contains(p, `\`) {
		msgs = append(msgs, "must not contain backslashes")
	}

	segments := strings.Split(p, "/")
	for _, seg := range segments {
		if seg == ".." {
			msgs = append(msgs, "must not contain '..' segments")
			break
		}
	}

	if !allowedTopDirs[segments[0]] {
		msgs = append(msgs, "must start with one of: scripts/, references/, assets/")
	}
	if len(segments) < 2 || segments[len(segments)-1] == "" {
		msgs = append(msgs, "must include a filename")
	}
	if path.Base(p) == reservedFileName {
		msgs = append(msgs, reservedFileName+" is reserved for generated output")
	}

	return msgs
}

package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	minNameLength = 3
	maxNameLength = 30

	maxCommentLength = 200

	// MaxPayloadSize bounds individual mesh and texture uploads
	MaxPayloadSize = 1 << 30 // 1 GiB

	// MeshExtension is the only accepted mesh file extension
	MeshExtension = ".fbx"

	// TextureExtension is the only accepted texture file extension
	TextureExtension = ".png"
)

var (
	repositoryNameRe = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	nameRe           = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	commentRe        = regexp.MustCompile(`^[\p{L}0-9_\s.,!?-]+$`)
	sanitizeRe       = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ValidateRepositoryName enforces the repository naming rule:
// 3-30 chars picked from letters, digits, underscore and dot.
func ValidateRepositoryName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength || !repositoryNameRe.MatchString(name) {
		return fmt.Errorf("invalid name: repository name %q must be 3-30 chars long and contain only letters, digits, _ and .", name)
	}
	return nil
}

// ValidateResourceName enforces the resource naming rule:
// 3-30 chars picked from letters, digits and underscore.
func ValidateResourceName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength || !nameRe.MatchString(name) {
		return fmt.Errorf("invalid name: resource name %q must be 3-30 chars long and contain only letters, digits and _", name)
	}
	return nil
}

// ValidateBranchName enforces the branch naming rule (same as resources)
func ValidateBranchName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength || !nameRe.MatchString(name) {
		return fmt.Errorf("invalid name: branch name %q must be 3-30 chars long and contain only letters, digits and _", name)
	}
	return nil
}

// ValidateVersionName enforces the rule on the user-supplied version
// name hint (same alphabet as resources and branches)
func ValidateVersionName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength || !nameRe.MatchString(name) {
		return fmt.Errorf("invalid name: version name %q must be 3-30 chars long and contain only letters, digits and _", name)
	}
	return nil
}

// ValidateUserName enforces the rule on caller user names
func ValidateUserName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength || !nameRe.MatchString(name) {
		return fmt.Errorf("invalid name: user name %q must be 3-30 chars long and contain only letters, digits and _", name)
	}
	return nil
}

// ValidateComment enforces the comment rule: up to 200 chars of
// letters, digits, whitespace and the ., !, ?, - and _ signs.
// An empty comment is accepted.
func ValidateComment(comment string) error {
	if comment == "" {
		return nil
	}
	if len(comment) > maxCommentLength || !commentRe.MatchString(comment) {
		return fmt.Errorf("invalid comment: must be 0-200 chars long and contain only !, ?, ., , and - as special characters")
	}
	return nil
}

func validatePayloadFile(f File, extension string) error {
	if f.Name == "" || f.Open == nil {
		return fmt.Errorf("invalid file: missing name or content")
	}
	if f.Size <= 0 || f.Size > MaxPayloadSize {
		return fmt.Errorf("invalid file: %q must be non-empty and smaller than 1GiB", f.Name)
	}
	if !strings.HasSuffix(strings.ToLower(f.Name), extension) {
		return fmt.Errorf("invalid file: %q must end with %s", f.Name, extension)
	}
	base := f.Name[:len(f.Name)-len(extension)]
	if len(base) < minNameLength || len(base) > maxNameLength || !nameRe.MatchString(base) {
		return fmt.Errorf("invalid file: base name of %q must be 3-30 chars long and contain only letters, digits and _", f.Name)
	}
	return nil
}

// ValidateMeshFile enforces the mesh upload rule: a .fbx file under
// 1GiB whose base name follows the common naming rule.
func ValidateMeshFile(f File) error {
	return validatePayloadFile(f, MeshExtension)
}

// ValidateTextureFile enforces the texture upload rule: a .png file
// under 1GiB whose base name follows the common naming rule.
func ValidateTextureFile(f File) error {
	return validatePayloadFile(f, TextureExtension)
}

// GenerateVersionName derives the stored version name from the
// user-supplied hint: the hint is stripped of non-alphanumerics,
// lowercased and truncated to 3 chars, then 4 hex chars from a fresh
// UUID are appended.
//
// The probability of a collision with 1.000.000 versions for a single
// resource, so with the same base, is ca. 6.37%: callers must check
// the generated name against the graph index before committing.
func GenerateVersionName(hint string) string {
	base := strings.ToLower(sanitizeRe.ReplaceAllString(hint, ""))
	if len(base) > 3 {
		base = base[:3]
	}
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	return base + u[:4]
}

package story

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ErrIncompatibleFormat is returned when a draft file was written by an
// incompatible format version.
var ErrIncompatibleFormat = errors.New("incompatible draft format")

// EncodeDraft writes d as YAML, stamping the current format version.
func EncodeDraft(w io.Writer, d *Draft) error {
	out := *d
	out.FormatVersion = FormatVersion

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return enc.Close()
}

// DecodeDraft reads a YAML draft and checks its format version. A missing
// version is read as the current one.
func DecodeDraft(r io.Reader) (*Draft, error) {
	var d Draft
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if err := CheckFormatVersion(d.FormatVersion); err != nil {
		return nil, err
	}
	return &d, nil
}

// CheckFormatVersion accepts any version with the same major version as
// FormatVersion.
func CheckFormatVersion(v string) error {
	if v == "" {
		return nil
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrIncompatibleFormat, v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: file is %s, this build reads %s.x", ErrIncompatibleFormat, v, semver.Major(FormatVersion))
	}
	return nil
}

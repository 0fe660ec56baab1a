package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// manifestFileName is the build manifest the pack command reads from a
// source directory. It lives outside the archive; pack.json inside the
// archive is generated from it.
const manifestFileName = "pack.toml"

// Manifest describes a pack to be built from a source directory.
type Manifest struct {
	Name    string `toml:"name"`
	ID      string `toml:"id"`
	Version string `toml:"version"`
	Author  string `toml:"author"`

	ColorOverrides *ManifestColorOverrides `toml:"color_overrides"`
}

// ManifestColorOverrides mirrors the custom color override block of the
// pack metadata document.
type ManifestColorOverrides struct {
	Enabled       bool    `toml:"enabled"`
	MinRedness    float32 `toml:"min_redness"`
	MinSaturation float32 `toml:"min_saturation"`
	RedTolerance  float32 `toml:"red_tolerance"`
}

// loadManifest reads and validates a pack.toml file.
func loadManifest(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if os.IsNotExist(err) {
			return m, errors.New(errors.ErrCodeInvalidManifest, "no %s found at %s", manifestFileName, path)
		}
		return m, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

// Validate checks required fields and applies defaults.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest is missing a pack name")
	}
	if m.ID == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest is missing a pack id")
	}
	if m.Version == "" {
		m.Version = "1"
	}
	return nil
}

// Meta converts the manifest into archive metadata.
func (m Manifest) Meta() assetpack.PackMeta {
	meta := assetpack.PackMeta{
		Name:    m.Name,
		ID:      m.ID,
		Version: m.Version,
		Author:  m.Author,
	}
	if m.ColorOverrides != nil {
		meta.CustomColorOverrides = &assetpack.ColorOverrides{
			Enabled:       m.ColorOverrides.Enabled,
			MinRedness:    m.ColorOverrides.MinRedness,
			MinSaturation: m.ColorOverrides.MinSaturation,
			RedTolerance:  m.ColorOverrides.RedTolerance,
		}
	}
	return meta
}

// manifestFromMeta builds a manifest from decoded archive metadata, used by
// unpack so the extracted tree can be rebuilt with the pack command.
func manifestFromMeta(meta assetpack.PackMeta) Manifest {
	m := Manifest{
		Name:    meta.Name,
		ID:      meta.ID,
		Version: meta.Version,
		Author:  meta.Author,
	}
	if meta.CustomColorOverrides != nil {
		m.ColorOverrides = &ManifestColorOverrides{
			Enabled:       meta.CustomColorOverrides.Enabled,
			MinRedness:    meta.CustomColorOverrides.MinRedness,
			MinSaturation: meta.CustomColorOverrides.MinSaturation,
			RedTolerance:  meta.CustomColorOverrides.RedTolerance,
		}
	}
	return m
}

// writeManifest encodes a manifest to path as TOML.
func writeManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "encode %s", path)
	}
	return f.Close()
}

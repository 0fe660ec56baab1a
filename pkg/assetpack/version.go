package assetpack

import (
	"fmt"
	"io"
)

// GodotVersion identifies the engine release that produced an archive.
// It is purely descriptive and carried through read/write unchanged.
type GodotVersion struct {
	Version  int32
	Major    int32
	Minor    int32
	Revision int32
}

// String formats the version as "version.major.minor.revision".
func (v GodotVersion) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Version, v.Major, v.Minor, v.Revision)
}

const versionSize = 4 * 4

func readVersion(r io.Reader) (GodotVersion, error) {
	var v GodotVersion
	for _, field := range []*int32{&v.Version, &v.Major, &v.Minor, &v.Revision} {
		n, err := readInt32(r)
		if err != nil {
			return GodotVersion{}, err
		}
		*field = n
	}
	return v, nil
}

func (v GodotVersion) writeTo(w io.Writer) error {
	for _, field := range []int32{v.Version, v.Major, v.Minor, v.Revision} {
		if err := writeInt32(w, field); err != nil {
			return err
		}
	}
	return nil
}

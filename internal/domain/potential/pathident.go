package potential

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// potcarFilename is the only accepted base name for potential files.
const potcarFilename = "POTCAR"

// reArchive finds the pseudopotential archive token inside a library path.
// Archive directories are frequently renamed with prefixes and suffixes
// (e.g. "prefix.potpaw_lda.52.unpacked"), so the token may appear anywhere
// in the path rather than as an exact directory name.
var reArchive = regexp.MustCompile(`(?i)pot(uspp|paw)_(lda|pbe|gga)(\.5[24])?`)

// ResolvePath derives a potential's identity from its location inside a
// pseudopotential library tree.  The file must be a regular file named
// exactly "POTCAR"; its name is taken from the parent directory and its
// functional from the archive token found in the path, e.g.
//
//	/vasp/potpaw_PBE.54/Zr_sv/POTCAR  →  {Name: "Zr_sv", Functional: pbe_54}
func ResolvePath(path string) (pottypes.Identity, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return pottypes.Identity{}, errors.Wrap(err, errors.CodePathNotAFile,
			fmt.Sprintf("Path '%s' does not point to a file", path))
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		ae := errors.Newf(errors.CodePathNotAFile,
			"Path '%s' does not point to a file", abs)
		if err != nil {
			return pottypes.Identity{}, ae.WithCause(err)
		}
		return pottypes.Identity{}, ae
	}

	if filepath.Base(abs) != potcarFilename {
		return pottypes.Identity{}, errors.Newf(errors.CodePathBadFilename,
			"Potcar file must be named '%s' (got '%s')", potcarFilename, filepath.Base(abs))
	}

	token := reArchive.FindString(abs)
	if token == "" {
		return pottypes.Identity{}, unknownArchiveError(abs)
	}
	functional, ok := pottypes.ArchiveFunctionals[strings.ToLower(token)]
	if !ok {
		return pottypes.Identity{}, unknownArchiveError(abs)
	}

	return pottypes.Identity{
		Name:       filepath.Base(filepath.Dir(abs)),
		Functional: functional,
	}, nil
}

func unknownArchiveError(path string) *errors.AppError {
	return errors.Newf(errors.CodePathUnknownArchive,
		"Unable to parse functional identifier from path '%s' (expected one of: %s)",
		path, strings.Join(pottypes.ArchiveTokens(), ", "))
}

// Package score reads notation files into the flattened model.Score the
// conversion pipeline consumes. MusicXML (.xml, .musicxml), compressed
// MusicXML (.mxl) and Standard MIDI files (.mid, .midi) are supported.
package score

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/songforge/model"
)

var ErrParse = errors.New("parse failure")

func parseError(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrParse, name, err)
}

func ReadFile(path string) (*model.Score, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, parseError(path, err)
	}
	return Read(path, dat)
}

// Read picks a reader by the extension of name.
func Read(name string, data []byte) (*model.Score, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml", ".musicxml":
		return ReadMusicXML(data)
	case ".mxl":
		return ReadMXL(data)
	case ".mid", ".midi":
		return ReadMidi(data)
	}
	return nil, parseError(name, errors.New("unsupported file type"))
}

var (
	majorKeys = []string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
	minorKeys = []string{"ab", "eb", "bb", "f", "c", "g", "d", "a", "e", "b", "f#", "c#", "g#", "d#", "a#"}
)

// keyName names a key from its position on the circle of fifths, e.g. "D major" or "b minor".
func keyName(fifths int, minor bool) (string, bool) {
	idx := fifths + 7
	if idx < 0 || idx >= len(majorKeys) {
		return "", false
	}
	if minor {
		return minorKeys[idx] + " minor", true
	}
	return majorKeys[idx] + " major", true
}

package score

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/jsphweid/songforge/model"
)

type mxlContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// ReadMXL reads a compressed MusicXML archive. The score named by
// META-INF/container.xml is used, falling back to the first MusicXML entry.
func ReadMXL(data []byte) (*model.Score, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, parseError("mxl", err)
	}

	name, err := rootfile(zr)
	if err != nil {
		return nil, parseError("mxl", err)
	}
	dat, err := readEntry(zr, name)
	if err != nil {
		return nil, parseError("mxl", err)
	}
	return ReadMusicXML(dat)
}

func rootfile(zr *zip.Reader) (string, error) {
	if dat, err := readEntry(zr, "META-INF/container.xml"); err == nil {
		var c mxlContainer
		if err := xml.Unmarshal(dat, &c); err == nil {
			for _, rf := range c.Rootfiles {
				if rf.FullPath != "" {
					return rf.FullPath, nil
				}
			}
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xml", ".musicxml":
			return f.Name, nil
		}
	}
	return "", errors.New("archive holds no score")
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
